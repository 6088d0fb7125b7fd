package scheduler

import (
	"fmt"

	"placesim/internal/common"
	"placesim/internal/scheduler/bestfit"
	"placesim/internal/scheduler/firstfit"
	"placesim/internal/scheduler/worstfit"
)

// CreatePlacer 创建放置策略
func CreatePlacer(policy PlacementPolicy) (Placer, error) {
	switch policy {
	case FirstFit:
		return firstfit.NewFirstFit(), nil
	case BestFit:
		return bestfit.NewBestFit(), nil
	case WorstFit:
		return worstfit.NewWorstFit(), nil
	default:
		return nil, fmt.Errorf("%w: unsupported placement policy %s", common.ErrUnknownPolicy, policy)
	}
}
