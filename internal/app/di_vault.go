package app

import (
	"context"
	"fmt"

	cryptoService "github.com/allisson/filevault/internal/crypto/service"
	"github.com/allisson/filevault/internal/http"
	"github.com/allisson/filevault/internal/metrics"
	vaultHTTP "github.com/allisson/filevault/internal/vault/http"
	vaultRepository "github.com/allisson/filevault/internal/vault/repository"
	vaultUsecase "github.com/allisson/filevault/internal/vault/usecase"
)

// MasterKey returns the process-wide master key. When a KMS-wrapped key is
// configured it is unwrapped once at startup; otherwise the plaintext
// ENCRYPTION_KEY value is used as-is (may be empty, in which case every
// request must supply its own key).
func (c *Container) MasterKey(ctx context.Context) (string, error) {
	c.masterKeyInit.Do(func() {
		if c.config.EncryptionKeyWrapped == "" {
			c.masterKey = c.config.EncryptionKey
			return
		}

		if c.config.KMSKeyURI == "" {
			c.initErrors["masterKey"] = fmt.Errorf("ENCRYPTION_KEY_WRAPPED is set but KMS_KEY_URI is empty")
			return
		}

		key, err := cryptoService.NewKMSService().UnwrapMasterKey(
			ctx,
			c.config.KMSKeyURI,
			c.config.EncryptionKeyWrapped,
		)
		if err != nil {
			c.initErrors["masterKey"] = fmt.Errorf("failed to unwrap master key: %w", err)
			return
		}
		c.masterKey = string(key)
	})
	if err, exists := c.initErrors["masterKey"]; exists {
		return "", err
	}
	return c.masterKey, nil
}

// ArtifactStore returns the ciphertext artifact store.
func (c *Container) ArtifactStore(ctx context.Context) (vaultUsecase.ArtifactStore, error) {
	c.artifactStoreInit.Do(func() {
		bucket, err := c.Bucket(ctx)
		if err != nil {
			c.initErrors["artifactStore"] = fmt.Errorf("failed to get bucket for artifact store: %w", err)
			return
		}
		c.artifactStore = vaultRepository.NewBlobArtifactStore(bucket)
	})
	if err, exists := c.initErrors["artifactStore"]; exists {
		return nil, err
	}
	return c.artifactStore, nil
}

// RecordRepository returns the file record repository selected by
// METADATA_BACKEND: blob documents next to the ciphertext, or a SQL table.
func (c *Container) RecordRepository(ctx context.Context) (vaultUsecase.RecordRepository, error) {
	c.recordRepoInit.Do(func() {
		repo, err := c.initRecordRepository(ctx)
		if err != nil {
			c.initErrors["recordRepo"] = err
			return
		}
		c.recordRepo = repo
	})
	if err, exists := c.initErrors["recordRepo"]; exists {
		return nil, err
	}
	return c.recordRepo, nil
}

func (c *Container) initRecordRepository(ctx context.Context) (vaultUsecase.RecordRepository, error) {
	switch c.config.MetadataBackend {
	case "blob":
		bucket, err := c.Bucket(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to get bucket for record repository: %w", err)
		}
		return vaultRepository.NewBlobRecordRepository(bucket), nil

	case "postgres":
		db, err := c.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get database for record repository: %w", err)
		}
		return vaultRepository.NewPostgreSQLRecordRepository(db), nil

	case "mysql":
		db, err := c.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get database for record repository: %w", err)
		}
		return vaultRepository.NewMySQLRecordRepository(db), nil

	default:
		return nil, fmt.Errorf("unsupported metadata backend: %s", c.config.MetadataBackend)
	}
}

// VaultUseCase returns the vault use case, decorated with metrics when enabled.
func (c *Container) VaultUseCase(ctx context.Context) (vaultUsecase.VaultUseCase, error) {
	c.vaultUseCaseInit.Do(func() {
		useCase, err := c.initVaultUseCase(ctx)
		if err != nil {
			c.initErrors["vaultUseCase"] = err
			return
		}
		c.vaultUseCase = useCase
	})
	if err, exists := c.initErrors["vaultUseCase"]; exists {
		return nil, err
	}
	return c.vaultUseCase, nil
}

func (c *Container) initVaultUseCase(ctx context.Context) (vaultUsecase.VaultUseCase, error) {
	artifactStore, err := c.ArtifactStore(ctx)
	if err != nil {
		return nil, err
	}

	recordRepo, err := c.RecordRepository(ctx)
	if err != nil {
		return nil, err
	}

	masterKey, err := c.MasterKey(ctx)
	if err != nil {
		return nil, err
	}

	useCase := vaultUsecase.NewVaultUseCase(
		artifactStore,
		recordRepo,
		cryptoService.NewKeyDeriver(),
		cryptoService.NewStreamCipher(c.config.ChunkSize),
		masterKey,
		c.config.ScratchDir,
	)

	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, err
	}
	if provider != nil {
		businessMetrics, err := metrics.NewBusinessMetrics(provider.MeterProvider(), c.config.MetricsNamespace)
		if err != nil {
			c.Logger().Warn("failed to create business metrics, continuing without instrumentation")
			businessMetrics = metrics.NewNoOpBusinessMetrics()
		}
		useCase = vaultUsecase.NewVaultUseCaseWithMetrics(useCase, businessMetrics)
	}

	return useCase, nil
}

// initHTTPServer creates the API server with all its dependencies.
func (c *Container) initHTTPServer(ctx context.Context) (*http.Server, error) {
	useCase, err := c.VaultUseCase(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get vault use case for http server: %w", err)
	}

	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, err
	}

	fileHandler := vaultHTTP.NewFileHandler(useCase, c.Logger())

	return http.NewServer(c.config, fileHandler, c.Logger(), provider), nil
}
