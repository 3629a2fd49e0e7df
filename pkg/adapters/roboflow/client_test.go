package roboflow

import (
	"context"
	"encoding/base64"
	"errors"
	"image"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/user/plantscan/pkg/adapters/logger"
	"github.com/user/plantscan/pkg/mocks"
	"github.com/user/plantscan/pkg/ports"
)

type capturedRequest struct {
	method      string
	path        string
	query       map[string]string
	contentType string
	body        []byte
}

func newTestServer(t *testing.T, status int, response string) (*httptest.Server, *capturedRequest) {
	t.Helper()
	captured := &capturedRequest{query: map[string]string{}}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured.method = r.Method
		captured.path = r.URL.Path
		for k := range r.URL.Query() {
			captured.query[k] = r.URL.Query().Get(k)
		}
		captured.contentType = r.Header.Get("Content-Type")
		captured.body, _ = io.ReadAll(r.Body)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		io.WriteString(w, response)
	}))
	t.Cleanup(srv.Close)
	return srv, captured
}

func newTestClient(t *testing.T, baseURL string) (*Client, *mocks.Renderer) {
	t.Helper()
	renderer := &mocks.Renderer{
		EncodeImageFunc: func(img image.Image, format ports.ImageFormat, quality int) ([]byte, error) {
			return []byte("jpeg-bytes"), nil
		},
	}
	client, err := New(Config{BaseURL: baseURL + "/", APIKey: "secret"}, renderer, logger.NewNoop())
	require.NoError(t, err)
	return client, renderer
}

func frame() image.Image {
	return image.NewRGBA(image.Rect(0, 0, 640, 640))
}

func TestNew_RequiresAPIKey(t *testing.T) {
	_, err := New(Config{}, &mocks.Renderer{}, logger.NewNoop())
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}

func TestNew_Defaults(t *testing.T) {
	c, err := New(Config{APIKey: "k"}, &mocks.Renderer{}, logger.NewNoop())
	require.NoError(t, err)

	assert.Equal(t, DefaultBaseURL, c.cfg.BaseURL)
	assert.Equal(t, DefaultProject, c.cfg.Project)
	assert.Equal(t, DefaultVersion, c.cfg.Version)
	assert.Equal(t, 30*time.Second, c.http.Timeout)
}

func TestPredict_Request(t *testing.T) {
	srv, captured := newTestServer(t, http.StatusOK, `{"predictions":[]}`)
	client, _ := newTestClient(t, srv.URL)

	preds, err := client.Predict(context.Background(), frame(), ports.PredictOptions{Confidence: 0.43, Overlap: 0.5})
	require.NoError(t, err)
	assert.Empty(t, preds)

	assert.Equal(t, http.MethodPost, captured.method)
	assert.Equal(t, "/tomato-disease-b518h/3", captured.path)
	assert.Equal(t, "secret", captured.query["api_key"])
	assert.Equal(t, "43", captured.query["confidence"])
	assert.Equal(t, "50", captured.query["overlap"])
	assert.Equal(t, "application/x-www-form-urlencoded", captured.contentType)
	assert.Equal(t, base64.StdEncoding.EncodeToString([]byte("jpeg-bytes")), string(captured.body))
}

func TestPredict_ParsesPredictions(t *testing.T) {
	srv, _ := newTestServer(t, http.StatusOK, `{
		"time": 0.05,
		"image": {"width": 640, "height": 640},
		"predictions": [
			{"x": 320, "y": 300, "width": 64, "height": 80, "class": "Early_Blight", "confidence": 0.87},
			{"x": 10.5, "y": 20.25, "width": 5, "height": 6, "class": "Leaf_Mold", "confidence": 0.51}
		]
	}`)
	client, _ := newTestClient(t, srv.URL)

	preds, err := client.Predict(context.Background(), frame(), ports.PredictOptions{Confidence: 0.43, Overlap: 0.5})
	require.NoError(t, err)
	require.Len(t, preds, 2)

	assert.Equal(t, ports.Prediction{X: 320, Y: 300, Width: 64, Height: 80, Class: "Early_Blight", Confidence: 0.87}, preds[0])
	assert.Equal(t, "Leaf_Mold", preds[1].Class)
	assert.InDelta(t, 20.25, preds[1].Y, 1e-9)
}

func TestPredict_MissingPredictionsKey(t *testing.T) {
	srv, _ := newTestServer(t, http.StatusOK, `{}`)
	client, _ := newTestClient(t, srv.URL)

	preds, err := client.Predict(context.Background(), frame(), ports.PredictOptions{})
	require.NoError(t, err)
	assert.Empty(t, preds)
}

func TestPredict_Errors(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		expected error
	}{
		{"unauthorized", http.StatusForbidden, `{"message":"bad key"}`, ErrStatus},
		{"server error", http.StatusInternalServerError, `oops`, ErrStatus},
		{"not json", http.StatusOK, `<html>`, ErrMalformed},
		{"missing class", http.StatusOK, `{"predictions":[{"x":1,"y":1,"width":1,"height":1,"confidence":0.9}]}`, ErrMalformed},
		{"missing confidence", http.StatusOK, `{"predictions":[{"x":1,"y":1,"width":1,"height":1,"class":"a"}]}`, ErrMalformed},
		{"string coordinate", http.StatusOK, `{"predictions":[{"x":"1","y":1,"width":1,"height":1,"class":"a","confidence":0.9}]}`, ErrMalformed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _ := newTestServer(t, tt.status, tt.body)
			client, _ := newTestClient(t, srv.URL)

			_, err := client.Predict(context.Background(), frame(), ports.PredictOptions{})
			assert.ErrorIs(t, err, tt.expected)
		})
	}
}

func TestPredict_EncodeFailure(t *testing.T) {
	srv, captured := newTestServer(t, http.StatusOK, `{}`)
	client, renderer := newTestClient(t, srv.URL)

	encodeErr := errors.New("encoder broke")
	renderer.EncodeImageFunc = func(img image.Image, format ports.ImageFormat, quality int) ([]byte, error) {
		return nil, encodeErr
	}

	_, err := client.Predict(context.Background(), frame(), ports.PredictOptions{})
	assert.ErrorIs(t, err, encodeErr)
	assert.Empty(t, captured.method, "no request should be sent")
}

func TestPredict_CancelledContext(t *testing.T) {
	srv, _ := newTestServer(t, http.StatusOK, `{}`)
	client, _ := newTestClient(t, srv.URL)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Predict(ctx, frame(), ports.PredictOptions{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPercent(t *testing.T) {
	assert.Equal(t, 43, percent(0.43))
	assert.Equal(t, 50, percent(0.5))
	assert.Equal(t, 0, percent(0))
	assert.Equal(t, 100, percent(1))
}
