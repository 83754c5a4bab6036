package api

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/harmony-haven/haven-client/internal/domain"
	"github.com/harmony-haven/haven-client/internal/logger"
	"github.com/harmony-haven/haven-client/internal/session"
	"github.com/harmony-haven/haven-client/pkg/httpclient"
	"github.com/harmony-haven/haven-client/pkg/retry"
)

// QuoteDTO is the wire record for a quote. Id, text and media URL are
// required; a record missing any of them is a hard decode failure (and gets
// skipped by the lenient decoder). Everything else has defaults.
type QuoteDTO struct {
	ID            int
	Quote         string
	Writer        string
	ImageURL      string
	QuoteCategory int
	IsLiked       bool
}

// UnmarshalJSON decodes a quote record, enforcing the required fields and
// defaulting the rest.
func (q *QuoteDTO) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	id, ok := pickInt(raw, "id")
	if !ok {
		return fmt.Errorf("quote record missing id")
	}
	text, ok := pickString(raw, "quote")
	if !ok {
		return fmt.Errorf("quote record %d missing quote text", id)
	}
	imageURL, ok := pickString(raw, "imageUrl")
	if !ok {
		return fmt.Errorf("quote record %d missing media url", id)
	}

	q.ID = id
	q.Quote = text
	q.ImageURL = imageURL
	q.Writer, _ = pickString(raw, "writer")
	q.QuoteCategory, _ = pickInt(raw, "quoteCategory")
	q.IsLiked, _ = pickBool(raw, "isLiked")
	return nil
}

// QuotesPage is one fetched page of quotes with its cursor metadata.
type QuotesPage struct {
	Quotes     []domain.Quote
	TotalCount int
	Pagination domain.PaginationInfo
}

// QuoteService fetches shuffled quote pages. The seed fixes the server-side
// shuffle order so pages stay consistent within a browsing session.
type QuoteService struct {
	service
}

// NewQuoteService builds the quote service on top of the shared transport.
func NewQuoteService(sender httpclient.Sender, policy retry.Policy, sess *session.Context, log logger.Logger) *QuoteService {
	return &QuoteService{service: newService(sender, policy, sess, log)}
}

// FetchPage retrieves one page of quotes for the given categories and seed.
func (s *QuoteService) FetchPage(ctx context.Context, categories []int, page, pageSize, seed int) (QuotesPage, error) {
	params := map[string]any{
		"categories": categories,
		"page":       page,
		"pageSize":   pageSize,
		"seed":       seed,
	}

	body, err := s.post(ctx, endpointQuotes, params)
	if err != nil {
		return QuotesPage{}, err
	}

	dtos, pagination := DecodeFeed[QuoteDTO](body, envelopeKeys("quotes"), s.log)
	quotes := make([]domain.Quote, 0, len(dtos))
	for _, dto := range dtos {
		quotes = append(quotes, mapQuote(dto))
	}

	return QuotesPage{
		Quotes:     quotes,
		TotalCount: extractTotalCount(rootObject(body), len(quotes)),
		Pagination: pagination,
	}, nil
}

// mapQuote converts a wire quote into the immutable domain entity, deriving
// the video flag from the media URL suffix.
func mapQuote(dto QuoteDTO) domain.Quote {
	return domain.Quote{
		ID:         dto.ID,
		Content:    dto.Quote,
		Writer:     dto.Writer,
		MediaURL:   dto.ImageURL,
		CategoryID: dto.QuoteCategory,
		IsLiked:    dto.IsLiked,
		IsVideo:    domain.IsVideoURL(dto.ImageURL),
	}
}
