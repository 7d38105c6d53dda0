package axis

import (
	"io"
	"net/http"
	"strings"

	custerror "github.com/axfleet/eventwatch/internal/error"

	fastshot "github.com/opus-domini/fast-shot"
)

func handleError(resp *fastshot.Response) error {
	switch resp.StatusCode() {
	case 400:
		return custerror.FormatInvalidArgument(readErrorBody(resp.RawBody()))
	case 401:
		return custerror.ErrorPermissionDenied
	case 404:
		return custerror.ErrorNotFound
	case 500:
		return custerror.ErrorInternal
	}

	return nil
}

func handleHttpError(resp *http.Response) error {
	switch resp.StatusCode {
	case 400:
		return custerror.FormatInvalidArgument(readErrorBody(resp.Body))
	case 401:
		return custerror.ErrorPermissionDenied
	case 404:
		return custerror.ErrorNotFound
	case 500:
		return custerror.ErrorInternal
	}
	if resp.StatusCode >= 300 {
		return custerror.FormatUnavailable("unexpected status code %d", resp.StatusCode)
	}

	return nil
}

// Axis CGI endpoints report failures as short text/plain bodies.
func readErrorBody(body io.Reader) string {
	const maxErrorBody = 512
	b, err := io.ReadAll(io.LimitReader(body, maxErrorBody))
	if err != nil || len(b) == 0 {
		return "request rejected"
	}
	return strings.TrimSpace(string(b))
}
