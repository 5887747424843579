package client

import (
	"fmt"
	"io"
	"net/http"

	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"

	"github.com/vektah/gqlparser/v2/gqlerror"
)

// Response is the standard GraphQL response envelope. Data stays raw so the
// caller decides how to decode it.
type Response struct {
	Data   jsontext.Value `json:"data"`
	Errors gqlerror.List  `json:"errors,omitempty"`
}

// HTTPError is a non-2xx response from the endpoint.
type HTTPError struct {
	Body       string
	StatusCode int
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("http status code: %d, body: %s", e.StatusCode, e.Body)
}

// ParseResponse reads a GraphQL HTTP response, surfaces transport and
// GraphQL-level errors, and decodes the data payload into out.
//
// data と errors が両方存在する場合 (部分的成功) は data をデコードした上で
// errors を返す。
func ParseResponse(resp *http.Response, out any) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return &HTTPError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var envelope Response
	if err := json.Unmarshal(body, &envelope); err != nil {
		return fmt.Errorf("failed to decode response %q: %w", body, err)
	}

	if envelope.Data != nil {
		if err := json.Unmarshal(envelope.Data, out); err != nil {
			return fmt.Errorf("failed to decode data %q: %w", envelope.Data, err)
		}
	}

	if len(envelope.Errors) > 0 {
		return envelope.Errors
	}

	return nil
}
