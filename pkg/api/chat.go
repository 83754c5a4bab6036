package api

import (
	"bufio"
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/harmony-haven/haven-client/internal/logger"
	"github.com/harmony-haven/haven-client/internal/session"
	"github.com/harmony-haven/haven-client/pkg/httpclient"
)

// sseDataPrefix marks a content line in the chat event stream.
const sseDataPrefix = "data: "

// ChatService streams assistant replies over server-sent events. Unlike the
// other services it bypasses the retry-wrapped transport: a stream is read
// incrementally, has no fixed deadline, and must not be reissued mid-answer.
type ChatService struct {
	baseURL string
	client  *resty.Client
	sess    *session.Context
	log     logger.Logger
}

// NewChatService builds the chat service against the given base URL.
func NewChatService(baseURL string, sess *session.Context, log logger.Logger) (*ChatService, error) {
	parsed, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, httpclient.WrapError(httpclient.KindInvalidURL, fmt.Errorf("parse base url %q: %w", baseURL, err))
	}
	return &ChatService{
		baseURL: strings.TrimRight(parsed.String(), "/"),
		client:  httpclient.NewRestyHTTPClient(0),
		sess:    sess,
		log:     logger.Ensure(log),
	}, nil
}

// Stream sends the prompt and reads the event stream line by line, handing
// every data chunk to onChunk as it arrives. It returns the assembled reply;
// on a mid-stream failure the chunks received so far come back alongside the
// error.
func (s *ChatService) Stream(ctx context.Context, prompt string, onChunk func(string)) (string, error) {
	if s == nil || s.client == nil {
		return "", httpclient.NewError(httpclient.KindInvalidURL)
	}
	if strings.TrimSpace(prompt) == "" {
		return "", fmt.Errorf("prompt must not be empty")
	}

	target := s.baseURL + endpointChat + "/" + url.PathEscape(prompt)

	headers := map[string]string{
		"Accept":        "text/event-stream",
		"Cache-Control": "no-cache",
	}
	if token := s.sess.Token(); token != "" {
		headers["Authorization"] = "Bearer " + token
	}

	s.log.InfoObj("chat stream opened", "chat_meta", map[string]any{
		"url":           target,
		"prompt_length": len(prompt),
	})

	resp, err := s.client.R().
		SetContext(ctx).
		SetDoNotParseResponse(true).
		SetHeaders(headers).
		Get(target)
	if err != nil {
		return "", httpclient.ClassifyTransportError(err)
	}
	body := resp.RawBody()
	defer body.Close()

	if status := resp.StatusCode(); status < 200 || status > 299 {
		switch {
		case status == 401:
			return "", httpclient.NewError(httpclient.KindUnauthorized)
		case status >= 500 && status <= 599:
			return "", httpclient.NewError(httpclient.KindServerError)
		default:
			return "", httpclient.NewHTTPError(status, nil)
		}
	}

	var reply strings.Builder
	scanner := bufio.NewScanner(body)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, sseDataPrefix) {
			continue
		}
		chunk := line[len(sseDataPrefix):]
		reply.WriteString(chunk)
		if onChunk != nil {
			onChunk(chunk)
		}
	}
	if err := scanner.Err(); err != nil {
		s.log.WarnObj("chat stream interrupted", "error", err.Error())
		return reply.String(), httpclient.ClassifyTransportError(err)
	}

	s.log.InfoObj("chat stream completed", "reply_length", reply.Len())
	return reply.String(), nil
}
