package memory

import (
	"context"
	"sort"

	"github.com/riskibarqy/iihf-fantasy/internal/domain/user"
)

type UserRepository struct {
	h handle
}

func (r *UserRepository) List(_ context.Context) ([]user.User, error) {
	st, release := r.h.acquire()
	defer release()

	out := make([]user.User, 0, len(st.users))
	for _, u := range st.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *UserRepository) GetByID(_ context.Context, userID string) (user.User, bool, error) {
	st, release := r.h.acquire()
	defer release()

	u, ok := st.users[userID]
	return u, ok, nil
}

func (r *UserRepository) Create(_ context.Context, u user.User) error {
	st, release := r.h.acquire()
	defer release()

	for _, existing := range st.users {
		if existing.Username == u.Username {
			return user.ErrUsernameTaken
		}
	}
	st.users[u.ID] = u
	return nil
}
