package explore

import (
	"context"
	"fmt"
	"strings"

	"github.com/oggyb/muzz-web/internal/app"
	"github.com/oggyb/muzz-web/internal/db"
	svcErr "github.com/oggyb/muzz-web/internal/errors"
	"github.com/oggyb/muzz-web/internal/repository"
)

// Filter narrows ListUsers. Empty fields don't filter.
type Filter struct {
	Gender string
	Bio    string
}

// Service contains discovery, like/unlike and match logic on top of the
// user and like repositories. The HTTP handlers and the internal gRPC
// MatchService both call into it.
type Service struct {
	appCtx   *app.AppContext
	userRepo *repository.UserRepository
	likeRepo *repository.LikeRepository
}

// NewExploreService creates a new Explore service with dependencies from AppContext.
func NewExploreService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx:   appCtx,
		userRepo: repository.NewUserRepository(appCtx.DB),
		likeRepo: repository.NewLikeRepository(appCtx.DB),
	}
}

// ListUsers returns every user except the requester, narrowed by f.
//
// Behavior:
//   - Gender is an exact match; Bio is case-sensitive substring containment.
//   - Both filters apply together (AND). Blank values are ignored.
//   - No pagination; id order.
//
// Example:
//
//	svc.ListUsers(ctx, 1, explore.Filter{Gender: "female"})
func (s *Service) ListUsers(ctx context.Context, requesterID uint64, f Filter) ([]db.User, error) {
	s.appCtx.Logger.DebugContext(ctx, "ListUsers called", "requester", requesterID, "gender", f.Gender, "bio", f.Bio)

	users, err := s.userRepo.ListExcept(ctx, requesterID, repository.UserFilter{
		Gender: strings.TrimSpace(f.Gender),
		Bio:    f.Bio,
	})
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// Like records actor → target. Liking twice is a no-op.
//
// Behavior:
//   - ErrNotFound if target doesn't exist.
//   - ErrSelfAction if actor == target.
//   - Returns whether the like is now mutual, so callers can announce a match.
func (s *Service) Like(ctx context.Context, actorID, targetID uint64) (bool, error) {
	s.appCtx.Logger.DebugContext(ctx, "Like called", "actor", actorID, "target", targetID)

	if actorID == targetID {
		return false, svcErr.ErrSelfAction
	}
	if err := s.ensureUser(ctx, targetID); err != nil {
		return false, err
	}

	if err := s.likeRepo.Like(ctx, actorID, targetID); err != nil {
		return false, fmt.Errorf("like: %w", err)
	}

	mutual, err := s.likeRepo.HasLiked(ctx, targetID, actorID)
	if err != nil {
		return false, fmt.Errorf("check mutual like: %w", err)
	}
	if mutual {
		s.appCtx.Logger.InfoContext(ctx, "new match", "actor", actorID, "target", targetID)
	}
	return mutual, nil
}

// Unlike removes actor → target if present. Idempotent.
func (s *Service) Unlike(ctx context.Context, actorID, targetID uint64) error {
	if err := s.ensureUser(ctx, targetID); err != nil {
		return err
	}
	if err := s.likeRepo.Unlike(ctx, actorID, targetID); err != nil {
		return fmt.Errorf("unlike: %w", err)
	}
	return nil
}

// HasLiked reports whether actor has liked target.
func (s *Service) HasLiked(ctx context.Context, actorID, targetID uint64) (bool, error) {
	return s.likeRepo.HasLiked(ctx, actorID, targetID)
}

// LikesOf returns the users userID has liked.
func (s *Service) LikesOf(ctx context.Context, userID uint64) ([]db.User, error) {
	return s.likeRepo.LikesOf(ctx, userID)
}

// LikedBy returns the users who liked userID.
func (s *Service) LikedBy(ctx context.Context, userID uint64) ([]db.User, error) {
	return s.likeRepo.LikedBy(ctx, userID)
}

// LikedSet returns the ids userID has liked, for marking list entries.
func (s *Service) LikedSet(ctx context.Context, userID uint64) (map[uint64]bool, error) {
	liked, err := s.likeRepo.LikesOf(ctx, userID)
	if err != nil {
		return nil, err
	}
	set := make(map[uint64]bool, len(liked))
	for _, u := range liked {
		set[u.ID] = true
	}
	return set, nil
}

// Matches returns users userID liked who liked userID back, in the order
// userID liked them.
func (s *Service) Matches(ctx context.Context, userID uint64) ([]db.User, error) {
	matches, err := s.likeRepo.Matches(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("matches: %w", err)
	}
	s.appCtx.Logger.DebugContext(ctx, "Matches result", "user", userID, "count", len(matches))
	return matches, nil
}

func (s *Service) ensureUser(ctx context.Context, id uint64) error {
	ok, err := s.userRepo.Exists(ctx, id)
	if err != nil {
		return fmt.Errorf("lookup user: %w", err)
	}
	if !ok {
		return svcErr.ErrNotFound
	}
	return nil
}
