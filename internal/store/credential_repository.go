package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-pass-sync/internal/logger"
	"github.com/MKhiriev/go-pass-sync/models"
)

// credentialRepository is the sqlite-backed [CredentialStore].
type credentialRepository struct {
	*DB
	now    func() time.Time
	logger *logger.Logger
}

// NewCredentialRepository constructs a [CredentialStore] on top of db.
func NewCredentialRepository(db *DB, logger *logger.Logger) CredentialStore {
	return &credentialRepository{
		DB:     db,
		now:    time.Now,
		logger: logger,
	}
}

func defaultCredentialsRef(t models.BackendType) string {
	return "backend/" + t.String()
}

// Get returns the descriptor of backend type t together with its secrets.
func (c *credentialRepository) Get(ctx context.Context, t models.BackendType) (*models.BackendDescriptor, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildSelectDescriptorQuery(t)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var ref, settings string
	var secrets sql.NullString
	err = c.DB.QueryRowContext(ctx, query, args...).Scan(&ref, &settings, &secrets)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrDescriptorNotFound
	}
	if err != nil {
		log.Err(err).
			Str("func", "credentialRepository.Get").
			Str("backend_type", t.String()).
			Msg("failed to query backend descriptor")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	desc := &models.BackendDescriptor{
		BackendType:    t,
		CredentialsRef: ref,
		Credentials:    map[string]string{},
		CustomSettings: map[string]string{},
	}
	if err = json.Unmarshal([]byte(settings), &desc.CustomSettings); err != nil {
		return nil, fmt.Errorf("%w: custom settings of %s: %v", ErrCorruptedState, t, err)
	}
	if secrets.Valid && secrets.String != "" {
		if err = json.Unmarshal([]byte(secrets.String), &desc.Credentials); err != nil {
			return nil, fmt.Errorf("%w: credentials of %s: %v", ErrCorruptedState, t, err)
		}
	}

	return desc, nil
}

// Put stores desc and its secrets in one transaction. An empty
// CredentialsRef is replaced with a ref derived from the backend type.
func (c *credentialRepository) Put(ctx context.Context, desc models.BackendDescriptor) error {
	log := logger.FromContext(ctx)

	if desc.CredentialsRef == "" {
		desc.CredentialsRef = defaultCredentialsRef(desc.BackendType)
	}
	settings := desc.CustomSettings
	if settings == nil {
		settings = map[string]string{}
	}
	secrets := desc.Credentials
	if secrets == nil {
		secrets = map[string]string{}
	}

	settingsJSON, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("encode custom settings: %w", err)
	}
	secretsJSON, err := json.Marshal(secrets)
	if err != nil {
		return fmt.Errorf("encode credentials: %w", err)
	}

	descQuery, descArgs, err := buildUpsertDescriptorQuery(desc, string(settingsJSON), c.now().UnixMilli())
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	credQuery, credArgs, err := buildUpsertCredentialsQuery(desc.CredentialsRef, string(secretsJSON))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	tx, err := c.DB.BeginTx(ctx, nil)
	if err != nil {
		log.Err(err).Str("func", "credentialRepository.Put").Msg("failed to begin transaction")
		return fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	if _, err = tx.ExecContext(ctx, descQuery, descArgs...); err != nil {
		log.Err(err).
			Str("func", "credentialRepository.Put").
			Str("backend_type", desc.BackendType.String()).
			Msg("failed to upsert backend descriptor")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	if _, err = tx.ExecContext(ctx, credQuery, credArgs...); err != nil {
		log.Err(err).
			Str("func", "credentialRepository.Put").
			Str("backend_type", desc.BackendType.String()).
			Msg("failed to upsert backend credentials")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	if err = tx.Commit(); err != nil {
		log.Err(err).Str("func", "credentialRepository.Put").Msg("failed to commit transaction")
		return fmt.Errorf("%w: %w", ErrCommitingTransaction, err)
	}

	log.Debug().
		Str("func", "credentialRepository.Put").
		Str("backend_type", desc.BackendType.String()).
		Msg("backend descriptor stored")
	return nil
}

// Clear removes the descriptor of t and the secrets it references.
func (c *credentialRepository) Clear(ctx context.Context, t models.BackendType) error {
	credQuery, credArgs, err := buildDeleteCredentialsOfTypeQuery(t)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	descQuery, descArgs, err := buildDeleteDescriptorQuery(t)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	return c.inTx(ctx, "credentialRepository.Clear",
		statement{credQuery, credArgs},
		statement{descQuery, descArgs},
	)
}

// ClearAll removes every descriptor and every secret.
func (c *credentialRepository) ClearAll(ctx context.Context) error {
	credQuery, credArgs, err := buildDeleteAllQuery(tableCredentials)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	descQuery, descArgs, err := buildDeleteAllQuery(tableDescriptors)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	return c.inTx(ctx, "credentialRepository.ClearAll",
		statement{credQuery, credArgs},
		statement{descQuery, descArgs},
	)
}
