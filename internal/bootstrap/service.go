package bootstrap

import (
	"context"
	"fmt"

	"github.com/opendut/carl/internal/core/resourcemanager"
	"github.com/opendut/carl/internal/core/storage"
	"github.com/opendut/carl/internal/core/storage/relational"
	"github.com/opendut/carl/internal/core/storage/volatile"
	"github.com/opendut/carl/pkg/mlog"
)

// Service bundles a running Manager with the means to shut it down cleanly.
type Service struct {
	Manager *resourcemanager.Manager
}

// NewService selects a backend per opts.Enabled (spec §6: "when false
// selects the volatile backend and all remaining keys are ignored") and
// constructs the Manager around it.
func NewService(ctx context.Context, opts storage.Options, log mlog.Logger) (*Service, error) {
	if log == nil {
		log = mlog.NoOp()
	}

	var backend storage.Backend
	if opts.Enabled {
		b, err := relational.Connect(ctx, opts.Database, log)
		if err != nil {
			return nil, fmt.Errorf("bootstrap: connect relational backend: %w", err)
		}
		backend = b
		log.Info("resource manager using relational backend")
	} else {
		backend = volatile.New()
		log.Info("resource manager using volatile backend")
	}

	return &Service{Manager: resourcemanager.New(backend, log)}, nil
}

func (s *Service) Close(ctx context.Context) error {
	return s.Manager.Close(ctx)
}
