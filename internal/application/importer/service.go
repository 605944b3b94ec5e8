package importer

import (
	"context"
	"fmt"

	"github.com/Mkilord/java-intensive-y-lab-sub000/internal/application/dealer"
	"github.com/Mkilord/java-intensive-y-lab-sub000/internal/domain/repository"
	"github.com/Mkilord/java-intensive-y-lab-sub000/internal/domain/user"
	"github.com/Mkilord/java-intensive-y-lab-sub000/internal/infrastructure/http/supplier"
	"github.com/Mkilord/java-intensive-y-lab-sub000/pkg/logger"
)

// Feed is the slice of the supplier client the importer needs.
type Feed interface {
	FetchInventory(ctx context.Context) ([]supplier.Vehicle, error)
}

// Report summarizes one import run.
type Report struct {
	Fetched int
	Created int
	Skipped int
	Failed  int
}

// Service pulls the supplier inventory feed and puts new vehicles on the
// catalog. It goes through the dealer engine so imported cars start FOR_SALE
// like any other.
type Service struct {
	feed   Feed
	dealer *dealer.Service
	log    logger.Logger
}

func NewService(feed Feed, d *dealer.Service, log logger.Logger) *Service {
	return &Service{feed: feed, dealer: d, log: log}
}

// Run fetches the feed once. A vehicle whose make, model and year already
// exist on the catalog is skipped; a row that fails validation is counted and
// logged but does not stop the run.
func (s *Service) Run(ctx context.Context) (Report, error) {
	vehicles, err := s.feed.FetchInventory(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("fetch inventory: %w", err)
	}

	report := Report{Fetched: len(vehicles)}
	for _, v := range vehicles {
		existing, err := s.dealer.ListCars(ctx, user.RoleAdmin, repository.CarFilter{
			Make:  v.Make,
			Model: v.Model,
			Year:  v.Year,
		})
		if err != nil {
			return report, fmt.Errorf("check catalog for %s %s: %w", v.Make, v.Model, err)
		}
		if len(existing) > 0 {
			report.Skipped++
			continue
		}

		if _, err := s.dealer.CreateCar(ctx, user.RoleAdmin, v.Make, v.Model, v.Year, v.Price); err != nil {
			report.Failed++
			s.log.Warn("vehicle rejected",
				logger.String("vin", v.VIN),
				logger.String("make", v.Make),
				logger.String("model", v.Model),
				logger.Error(err),
			)
			continue
		}
		report.Created++
	}

	s.log.Info("inventory import finished",
		logger.Int("fetched", report.Fetched),
		logger.Int("created", report.Created),
		logger.Int("skipped", report.Skipped),
		logger.Int("failed", report.Failed),
	)
	return report, nil
}
