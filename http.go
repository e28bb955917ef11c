package weblog

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// HTTPClient is the subset of *http.Client used by HTTP sources. Supplying a
// client is how callers impose timeouts, proxies, or retries on a download.
type HTTPClient interface {
	Do(r *http.Request) (*http.Response, error)
}

// ResponseProcessor turns an HTTP response into the reader the pipe consumes.
type ResponseProcessor func(res *http.Response) (io.Reader, error)

// HTTPPipe is a pipe whose contents are the body of an HTTP response. The
// request is sent lazily, on the first read or the first call to Error.
type HTTPPipe struct {
	Pipe
	executor *httpExecutor
}

// HTTP returns a pipe that GETs url with http.DefaultClient and yields the
// response body whatever its status code.
func HTTP(url string) *HTTPPipe {
	exec := newHTTPExecutor()
	var err error
	exec.request, err = http.NewRequest(http.MethodGet, url, nil)
	p := NewPipe().WithReader(exec).WithSource(url).WithError(err)
	return &HTTPPipe{
		*p,
		exec,
	}
}

// Get is like HTTP, but the pipe's error status is set unless the server
// answers 200 OK, so that an error page is never mistaken for a log.
func Get(url string) *HTTPPipe {
	return HTTP(url).WithProcessor(AssertingHTTPProcessor(http.StatusOK))
}

// Error sends the request if it has not been sent yet, and returns any error
// from building, sending, or processing it.
func (h *HTTPPipe) Error() error {
	if h == nil {
		return nil
	}
	if h.err != nil {
		return h.err
	}
	if err := h.executor.doRequest(); err != nil {
		h.SetError(err)
	}
	return h.err
}

// Log downloads the response and parses it as a log. See Pipe.Log.
func (h *HTTPPipe) Log() (Log, error) {
	if err := h.Error(); err != nil {
		return nil, err
	}
	return h.Pipe.Log()
}

// WithMethod sets the request method.
func (h *HTTPPipe) WithMethod(method string) *HTTPPipe {
	if h != nil && h.executor != nil && h.executor.request != nil {
		h.executor.request.Method = method
		return h
	}
	return nil
}

// WithHeader replaces the request headers.
func (h *HTTPPipe) WithHeader(header http.Header) *HTTPPipe {
	if h != nil && h.executor != nil && h.executor.request != nil {
		h.executor.request.Header = header
		return h
	}
	return nil
}

// WithClient sets the client used to send the request.
func (h *HTTPPipe) WithClient(client HTTPClient) *HTTPPipe {
	if h == nil || h.executor == nil {
		return nil
	}
	h.executor.client = client
	return h
}

// WithProcessor sets the function that turns the response into pipe data.
func (h *HTTPPipe) WithProcessor(process ResponseProcessor) *HTTPPipe {
	if h == nil || h.executor == nil {
		return nil
	}
	h.executor.processor = process
	return h
}

type httpExecutor struct {
	executed       bool
	err            error
	client         HTTPClient
	request        *http.Request
	responseReader io.Reader
	processor      ResponseProcessor
}

func newHTTPExecutor() *httpExecutor {
	return &httpExecutor{
		client:    http.DefaultClient,
		processor: defaultHTTPProcessor,
	}
}

func (h *httpExecutor) doRequest() error {
	if h.executed {
		return h.err
	}
	h.executed = true
	if h.request == nil {
		h.err = errors.New("there is no request set")
		return h.err
	}
	resp, err := h.client.Do(h.request)
	if err != nil {
		h.err = err
		return err
	}
	h.responseReader, h.err = h.processor(resp)
	if h.err != nil && resp.Body != nil {
		resp.Body.Close()
	}
	return h.err
}

func (h *httpExecutor) Read(p []byte) (n int, err error) {
	if err := h.doRequest(); err != nil {
		return 0, err
	}
	return h.responseReader.Read(p)
}

func (h *httpExecutor) Close() error {
	if closer, ok := h.responseReader.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

// defaultHTTPProcessor returns the response body, or an empty reader if the
// response has no body.
func defaultHTTPProcessor(resp *http.Response) (io.Reader, error) {
	if resp.Body != nil {
		return resp.Body, nil
	}
	return bytes.NewBufferString(""), nil
}

// AssertingHTTPProcessor returns a processor that fails unless the response
// has the expected status code, and otherwise returns the body.
func AssertingHTTPProcessor(code int) ResponseProcessor {
	return func(resp *http.Response) (io.Reader, error) {
		if resp.StatusCode != code {
			return bytes.NewBufferString(""), fmt.Errorf("got HTTP status code %d instead of expected %d", resp.StatusCode, code)
		}
		return defaultHTTPProcessor(resp)
	}
}
