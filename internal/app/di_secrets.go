package app

import (
	"fmt"

	"github.com/allisson/vaultops/internal/async"
	secretsUseCase "github.com/allisson/vaultops/internal/secrets/usecase"
)

// VersionedKVUseCase returns the versioned key-value use case instance.
func (c *Container) VersionedKVUseCase() (secretsUseCase.VersionedKVUseCase, error) {
	c.kvUseCaseInit.Do(func() {
		uc, err := c.initVersionedKVUseCase()
		if err != nil {
			c.storeErr("kvUseCase", err)
			return
		}
		c.kvUseCase = uc
	})
	if err := c.loadErr("kvUseCase"); err != nil {
		return nil, err
	}
	return c.kvUseCase, nil
}

// AsyncKV returns the non-blocking key-value facade.
func (c *Container) AsyncKV() (*async.KV, error) {
	c.asyncKVInit.Do(func() {
		uc, err := c.VersionedKVUseCase()
		if err != nil {
			c.storeErr("asyncKV", fmt.Errorf("failed to get kv use case for async kv: %w", err))
			return
		}
		c.asyncKV = async.NewKV(uc, c.Executor())
	})
	if err := c.loadErr("asyncKV"); err != nil {
		return nil, err
	}
	return c.asyncKV, nil
}

// initVersionedKVUseCase creates the key-value use case with all its dependencies.
func (c *Container) initVersionedKVUseCase() (secretsUseCase.VersionedKVUseCase, error) {
	tr, err := c.Transport()
	if err != nil {
		return nil, fmt.Errorf("failed to get transport for kv use case: %w", err)
	}

	baseUseCase := secretsUseCase.NewVersionedKVUseCase(tr, c.config.KVMount)

	// Wrap with metrics if enabled
	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for kv use case: %w", err)
		}
		return secretsUseCase.NewVersionedKVUseCaseWithMetrics(baseUseCase, businessMetrics), nil
	}

	return baseUseCase, nil
}
