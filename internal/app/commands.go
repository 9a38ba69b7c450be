package app

import (
	"context"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/ZarkoJovanovic1/meine-d-ner-app/internal/domain"
)

// CommandService owns every mutating operation. Business validation lives
// here so the rules hold no matter which transport calls in.
type CommandService struct {
	repo  domain.ShopRepository
	cache domain.Cache
}

func NewCommandService(r domain.ShopRepository, cache domain.Cache) *CommandService {
	return &CommandService{repo: r, cache: cache}
}

func (s *CommandService) Create(ctx context.Context, shop domain.Shop) (domain.Shop, error) {
	shop.Name = strings.TrimSpace(shop.Name)
	if shop.Name == "" {
		return domain.Shop{}, domain.Invalid("name is required")
	}
	if err := validRatings(shop.Ratings); err != nil {
		return domain.Shop{}, err
	}
	if shop.Source == "" {
		shop.Source = domain.SourceManual
	}
	if shop.Ratings == nil {
		shop.Ratings = []int{}
	}
	if shop.Comments == nil {
		shop.Comments = []domain.Comment{}
	}
	created, err := s.repo.CreateShop(ctx, shop)
	if err != nil {
		return domain.Shop{}, err
	}
	s.invalidate(ctx)
	return created, nil
}

func (s *CommandService) Update(ctx context.Context, id string, p domain.ShopPatch) (domain.Shop, error) {
	if p.Name != nil {
		n := strings.TrimSpace(*p.Name)
		if n == "" {
			return domain.Shop{}, domain.Invalid("name must not be empty")
		}
		p.Name = &n
	}
	if p.Ratings != nil {
		if err := validRatings(*p.Ratings); err != nil {
			return domain.Shop{}, err
		}
	}
	updated, err := s.repo.UpdateShop(ctx, id, p)
	if err != nil {
		return domain.Shop{}, err
	}
	s.invalidate(ctx)
	return updated, nil
}

func (s *CommandService) Delete(ctx context.Context, id string) error {
	if err := s.repo.DeleteShop(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

// Rate appends one star rating. The raw JSON number is checked here so that
// 4.5 or NaN never reaches the store; stored ratings are integers 1..5.
func (s *CommandService) Rate(ctx context.Context, id string, stars float64) (domain.Shop, error) {
	if math.IsNaN(stars) || math.IsInf(stars, 0) || stars != math.Trunc(stars) {
		return domain.Shop{}, domain.Invalid("stars must be a whole number between 1 and 5")
	}
	v := int(stars)
	if v < 1 || v > 5 {
		return domain.Shop{}, domain.Invalid("stars must be between 1 and 5")
	}
	updated, err := s.repo.AddRating(ctx, id, v)
	if err != nil {
		return domain.Shop{}, err
	}
	s.invalidate(ctx)
	return updated, nil
}

func (s *CommandService) CommentAdd(ctx context.Context, id, user, text string) (domain.Shop, error) {
	user = strings.TrimSpace(user)
	text = strings.TrimSpace(text)
	if user == "" || text == "" {
		return domain.Shop{}, domain.Invalid("user and text are required")
	}
	if utf8.RuneCountInString(text) > domain.MaxCommentLen {
		return domain.Shop{}, domain.Invalid("text must be at most 1000 characters")
	}
	updated, err := s.repo.AddComment(ctx, id, domain.Comment{
		User:      user,
		Text:      text,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		return domain.Shop{}, err
	}
	s.invalidate(ctx)
	return updated, nil
}

func (s *CommandService) CommentDelete(ctx context.Context, id, commentID string) (domain.Shop, error) {
	updated, err := s.repo.RemoveComment(ctx, id, commentID)
	if err != nil {
		return domain.Shop{}, err
	}
	s.invalidate(ctx)
	return updated, nil
}

func (s *CommandService) invalidate(ctx context.Context) {
	if s.cache != nil {
		_ = s.cache.Del(ctx, cacheKeyShops)
	}
}

func validRatings(rs []int) error {
	for _, r := range rs {
		if r < 1 || r > 5 {
			return domain.Invalid("ratings must be between 1 and 5")
		}
	}
	return nil
}
