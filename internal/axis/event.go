package axis

import (
	"bufio"
	"context"
	"io"
	"net/http"
	"net/url"
	"sync"

	custerror "github.com/axfleet/eventwatch/internal/error"
	custhttp "github.com/axfleet/eventwatch/internal/http"
)

type EventApiInterface interface {
	Subscribe(ctx context.Context, req *SubscribeRequest) (*EventStream, error)
}

type eventApiClient struct {
	httpClient *http.Client
	baseUrl    string
}

type SubscribeRequest struct {
	EventFilter string `json:"eventFilter"`
}

func (r *SubscribeRequest) filterOrDefault() string {
	if r == nil || r.EventFilter == "" {
		return "tns1:VideoAnalytics/*"
	}
	return r.EventFilter
}

// Subscribe opens one long-lived GET against event.cgi. The returned
// stream stays open until the camera closes the connection, the
// context is cancelled or Close is called. There is no reconnect.
func (c *eventApiClient) Subscribe(ctx context.Context, req *SubscribeRequest) (*EventStream, error) {
	p, err := url.Parse(c.baseUrl + "/event.cgi")
	if err != nil {
		return nil, custerror.FormatInvalidArgument("Subscribe: bad camera address: %s", err)
	}

	request, err := custhttp.NewHttpRequest(
		ctx,
		p,
		http.MethodGet,
		custhttp.WithQuery("action", "subscribe"),
		custhttp.WithQuery("events", req.filterOrDefault()))
	if err != nil {
		return nil, err
	}

	response, err := c.httpClient.Do(request)
	if err != nil {
		return nil, custerror.FormatUnavailable("Subscribe: connect failed: %s", err)
	}

	if err := handleHttpError(response); err != nil {
		response.Body.Close()
		return nil, err
	}

	return newEventStream(response), nil
}

// EventStream is a lazy, non-restartable sequence of raw lines read
// from the subscription body.
type EventStream struct {
	response *http.Response
	scanner  *bufio.Scanner

	closeOnce sync.Once
	closeErr  error
}

const maxLineSize = 1 << 20

func newEventStream(response *http.Response) *EventStream {
	scanner := bufio.NewScanner(response.Body)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)
	return &EventStream{
		response: response,
		scanner:  scanner,
	}
}

// Next blocks until the camera produces another line. It returns
// io.EOF once the server closes the stream and a typed transport
// error on anything else, including context cancellation.
func (s *EventStream) Next() (string, error) {
	if s.scanner.Scan() {
		return s.scanner.Text(), nil
	}
	if err := s.scanner.Err(); err != nil {
		return "", custerror.FormatUnavailable("stream read failed: %s", err)
	}
	return "", io.EOF
}

// Close releases the response body. Safe to call multiple times and
// from any exit path.
func (s *EventStream) Close() error {
	s.closeOnce.Do(func() {
		s.closeErr = s.response.Body.Close()
	})
	return s.closeErr
}
