package inbound

import (
	"context"
	"time"

	"github.com/empdesk/empdesk/domain/entity"
	"github.com/empdesk/empdesk/domain/valueobject"
)

type CreateLeaveRequest struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	LeaveType string `json:"leave_type"`
	Reason    string `json:"reason,omitempty"`
}

type ListLeavesRequest struct {
	Status    string
	StartDate *time.Time
	EndDate   *time.Time
	Skip      int
	Limit     int
}

type LeaveUseCase interface {
	RequestLeave(ctx context.Context, caller valueobject.Identity, req CreateLeaveRequest) (*entity.Leave, error)
	ListLeaves(ctx context.Context, caller valueobject.Identity, req ListLeavesRequest) ([]*entity.Leave, error)
	ApproveLeave(ctx context.Context, id int64) (*entity.Leave, error)
	RejectLeave(ctx context.Context, id int64) (*entity.Leave, error)
}
