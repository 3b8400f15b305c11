package system_healthcheck

import (
	"context"
	"fmt"
	"time"

	"zidotask/internal/storage"
	cache_utils "zidotask/internal/util/cache"

	"github.com/shirou/gopsutil/v4/disk"
)

const healthcheckTimeout = 3 * time.Second

type DiskUsage struct {
	Path        string  `json:"path"`
	TotalBytes  uint64  `json:"totalBytes"`
	UsedBytes   uint64  `json:"usedBytes"`
	UsedPercent float64 `json:"usedPercent"`
}

type HealthcheckService struct {
	diskPath string
}

// IsAvailable reports the first dependency that does not answer.
func (s *HealthcheckService) IsAvailable(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, healthcheckTimeout)
	defer cancel()

	sqlDb, err := storage.GetDb().DB()
	if err != nil {
		return fmt.Errorf("database check failed: %w", err)
	}

	if err := sqlDb.PingContext(ctx); err != nil {
		return fmt.Errorf("database check failed: %w", err)
	}

	if err := cache_utils.Ping(ctx); err != nil {
		return fmt.Errorf("cache check failed: %w", err)
	}

	return nil
}

func (s *HealthcheckService) GetDiskUsage(ctx context.Context) (*DiskUsage, error) {
	usage, err := disk.UsageWithContext(ctx, s.diskPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read disk usage of %s: %w", s.diskPath, err)
	}

	return &DiskUsage{
		Path:        usage.Path,
		TotalBytes:  usage.Total,
		UsedBytes:   usage.Used,
		UsedPercent: usage.UsedPercent,
	}, nil
}
