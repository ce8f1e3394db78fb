package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/dmitrijs2005/buidlvault/internal/address"
	"github.com/dmitrijs2005/buidlvault/internal/common"
	"github.com/dmitrijs2005/buidlvault/internal/server/models"
)

type proposalRepo struct {
	h *handle
}

func (r *proposalRepo) Create(_ context.Context, p *models.Proposal) error {
	return r.h.do(func(st *state) error {
		if _, ok := st.proposals[p.Address]; ok {
			return fmt.Errorf("db error: proposal %s: %w", p.Address, ErrDuplicate)
		}
		rec := *p
		rec.Upvotes, rec.Downvotes, rec.ReleasedAt = 0, 0, nil
		st.proposals[p.Address] = rec
		return nil
	})
}

func (r *proposalRepo) Get(_ context.Context, proposal address.Address) (*models.Proposal, error) {
	var out models.Proposal
	err := r.h.do(func(st *state) error {
		p, ok := st.proposals[proposal]
		if !ok {
			return fmt.Errorf("proposal %s: %w", proposal, common.ErrorNotFound)
		}
		out = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// GetForUpdate needs no row lock: transactions already hold the store lock.
func (r *proposalRepo) GetForUpdate(ctx context.Context, proposal address.Address) (*models.Proposal, error) {
	return r.Get(ctx, proposal)
}

func (r *proposalRepo) ListByCampaign(_ context.Context, campaign address.Address) ([]*models.Proposal, error) {
	var out []*models.Proposal
	err := r.h.do(func(st *state) error {
		for _, p := range st.proposals {
			if p.Campaign == campaign {
				p := p
				out = append(out, &p)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].Address.String() < out[j].Address.String()
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *proposalRepo) ApplyVote(_ context.Context, proposal address.Address, upDelta, downDelta int64) (int64, int64, error) {
	var up, down int64
	err := r.h.do(func(st *state) error {
		p, ok := st.proposals[proposal]
		if !ok {
			return fmt.Errorf("proposal %s: %w", proposal, common.ErrorNotFound)
		}
		if p.Upvotes+upDelta < 0 || p.Downvotes+downDelta < 0 {
			return fmt.Errorf("db error: negative tally on %s", proposal)
		}
		p.Upvotes += upDelta
		p.Downvotes += downDelta
		st.proposals[proposal] = p
		up, down = p.Upvotes, p.Downvotes
		return nil
	})
	return up, down, err
}

func (r *proposalRepo) MarkReleased(_ context.Context, proposal address.Address, at time.Time) error {
	return r.h.do(func(st *state) error {
		p, ok := st.proposals[proposal]
		if !ok || p.ReleasedAt != nil {
			return common.ErrProposalReleased
		}
		p.ReleasedAt = &at
		st.proposals[proposal] = p
		return nil
	})
}

type voteRepo struct {
	h *handle
}

func (r *voteRepo) Get(_ context.Context, record address.Address) (*models.Vote, error) {
	var out models.Vote
	err := r.h.do(func(st *state) error {
		v, ok := st.votes[record]
		if !ok {
			return common.ErrorNotFound
		}
		out = v
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *voteRepo) Create(_ context.Context, v *models.Vote) error {
	return r.h.do(func(st *state) error {
		if _, ok := st.votes[v.Address]; ok {
			return common.ErrVersionConflict
		}
		rec := *v
		rec.UpdatedAt = v.CreatedAt
		st.votes[v.Address] = rec
		return nil
	})
}

func (r *voteRepo) SetDirection(_ context.Context, record address.Address, upvote bool, at time.Time) error {
	return r.h.do(func(st *state) error {
		v, ok := st.votes[record]
		if !ok {
			return common.ErrorNotFound
		}
		v.Upvote = upvote
		v.UpdatedAt = at
		st.votes[record] = v
		return nil
	})
}

type updateRepo struct {
	h *handle
}

func (r *updateRepo) Create(_ context.Context, u *models.Update) error {
	return r.h.do(func(st *state) error {
		for _, existing := range st.updates {
			if existing.ID == u.ID {
				return fmt.Errorf("db error: update %s: %w", u.ID, ErrDuplicate)
			}
		}
		st.updates = append(st.updates, *u)
		return nil
	})
}

func (r *updateRepo) ListByCampaign(_ context.Context, campaign address.Address) ([]*models.Update, error) {
	var out []*models.Update
	err := r.h.do(func(st *state) error {
		for _, u := range st.updates {
			if u.Campaign == campaign {
				u := u
				out = append(out, &u)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}
