package workflow

import (
	"context"
	"fmt"

	"github.com/riedtal/admission-backend/internal/model"
)

// GetApplication returns an application together with its workflow state.
func (e *Engine) GetApplication(ctx context.Context, applicationID int64) (*model.ApplicationView, error) {
	app, err := e.apps.GetByID(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	inst, err := e.instances.Get(ctx, applicationID)
	if err != nil {
		return nil, fmt.Errorf("load workflow instance: %w", err)
	}
	return &model.ApplicationView{Application: *app, Workflow: *inst}, nil
}
