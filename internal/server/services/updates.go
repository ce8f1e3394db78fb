package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/buidlvault/internal/address"
	"github.com/dmitrijs2005/buidlvault/internal/common"
	"github.com/dmitrijs2005/buidlvault/internal/dbx"
	"github.com/dmitrijs2005/buidlvault/internal/server/blobs"
	"github.com/dmitrijs2005/buidlvault/internal/server/models"
	"github.com/google/uuid"
)

// UpdateService keeps the append-only log of campaign progress postings.
// Attachment bodies go straight to object storage through presigned URLs.
type UpdateService struct {
	env       Env
	presigner blobs.Presigner
}

func NewUpdateService(env Env, presigner blobs.Presigner) *UpdateService {
	return &UpdateService{env: env.withDefaults("updates"), presigner: presigner}
}

type PostUpdateRequest struct {
	Author         address.Address
	Campaign       address.Address
	Label          string
	Sequence       int64
	WithAttachment bool
}

// PostedUpdate is a stored update and, if an attachment was requested, the
// URL to upload its body to.
type PostedUpdate struct {
	Update    *models.Update
	UploadURL string
}

// PostUpdate stores the posting as given. Neither the label length nor the
// sequence order or uniqueness is checked.
func (s *UpdateService) PostUpdate(ctx context.Context, req PostUpdateRequest) (*PostedUpdate, error) {
	if req.WithAttachment && s.presigner == nil {
		return nil, fmt.Errorf("attachments are not configured: %w", common.ErrorInternal)
	}

	now := s.env.Clock.Now().UTC()
	u := &models.Update{
		ID:        uuid.NewString(),
		Campaign:  req.Campaign,
		Author:    req.Author,
		DBID:      req.Label,
		Sequence:  req.Sequence,
		CreatedAt: now,
	}
	if req.WithAttachment {
		u.StorageKey = blobs.StorageKey(req.Campaign, now)
	}

	out := &PostedUpdate{Update: u}
	err := s.env.inTx(ctx, "post_update", func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := s.env.Repos.Campaigns(tx).Get(ctx, req.Campaign); err != nil {
			return err
		}
		if err := s.env.Repos.Updates(tx).Create(ctx, u); err != nil {
			return err
		}
		if u.StorageKey == "" {
			return nil
		}
		var err error
		out.UploadURL, err = s.presigner.PresignPut(ctx, u.StorageKey)
		if err != nil {
			return fmt.Errorf("error presigning upload: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.env.Logger.Info(ctx, "update posted", "campaign", req.Campaign, "update", u.ID, "sequence", req.Sequence)
	return out, nil
}

type UpdateView struct {
	Update      *models.Update
	DownloadURL string
}

// ListUpdates returns the campaign postings oldest first.
func (s *UpdateService) ListUpdates(ctx context.Context, campaign address.Address) ([]*UpdateView, error) {
	if _, err := s.env.Repos.Campaigns(s.env.DB).Get(ctx, campaign); err != nil {
		return nil, err
	}
	list, err := s.env.Repos.Updates(s.env.DB).ListByCampaign(ctx, campaign)
	if err != nil {
		return nil, err
	}

	views := make([]*UpdateView, 0, len(list))
	for _, u := range list {
		v := &UpdateView{Update: u}
		if u.StorageKey != "" && s.presigner != nil {
			v.DownloadURL, err = s.presigner.PresignGet(ctx, u.StorageKey)
			if err != nil {
				return nil, fmt.Errorf("error presigning download: %w", err)
			}
		}
		views = append(views, v)
	}
	return views, nil
}
