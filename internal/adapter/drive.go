// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/MKhiriev/go-pass-sync/internal/logger"
	"github.com/MKhiriev/go-pass-sync/models"
	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

const (
	driveSpace      = "appDataFolder"
	driveFileFields = "id, name, modifiedTime, size"
	oobRedirectURL  = "urn:ietf:wg:oauth:2.0:oob"
)

// driveBackend stores records in the hidden appDataFolder of the user's
// Google Drive. Only the drive.appdata scope is requested, so the backend can
// never see the user's regular files.
type driveBackend struct {
	conf *oauth2.Config

	mu  sync.Mutex
	ts  oauth2.TokenSource
	svc *drive.Service

	opts   options
	logger *logger.Logger
}

func newDriveBackend(desc models.BackendDescriptor, o options) (Backend, error) {
	endpoint := google.Endpoint
	if u := desc.Setting(FieldAuthURL); u != "" {
		endpoint.AuthURL = u
	}
	if u := desc.Setting(FieldTokenURL); u != "" {
		endpoint.TokenURL = u
	}

	redirect := desc.Setting(FieldRedirectURL)
	if redirect == "" {
		redirect = oobRedirectURL
	}

	d := &driveBackend{
		conf: &oauth2.Config{
			ClientID:     desc.Setting(FieldClientID),
			ClientSecret: desc.Setting(FieldClientSecret),
			Endpoint:     endpoint,
			RedirectURL:  redirect,
			Scopes:       []string{drive.DriveAppdataScope},
		},
		opts:   o,
		logger: o.logger,
	}

	if raw := desc.Credentials[FieldToken]; raw != "" {
		var tok oauth2.Token
		if err := json.Unmarshal([]byte(raw), &tok); err != nil {
			// A broken token only forces a new consent; it is not a configuration error.
			d.logger.Warn().Str("func", "newDriveBackend").Err(err).Msg("ignoring undecodable drive token")
		} else {
			d.setToken(&tok)
		}
	}

	return d, nil
}

func (d *driveBackend) Type() models.BackendType { return models.BackendGoogleDrive }

func (d *driveBackend) setToken(tok *oauth2.Token) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.ts = oauth2.ReuseTokenSource(tok, d.conf.TokenSource(context.Background(), tok))
	d.svc = nil
}

func (d *driveBackend) hasSession() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.ts != nil || d.opts.httpClient != nil
}

func (d *driveBackend) service(ctx context.Context) (*drive.Service, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.svc != nil {
		return d.svc, nil
	}

	var client *http.Client
	switch {
	case d.opts.httpClient != nil:
		client = d.opts.httpClient
	case d.ts != nil:
		client = oauth2.NewClient(context.Background(), d.ts)
		client.Timeout = d.opts.timeout
	default:
		return nil, ErrNotAuthenticated
	}

	clientOpts := []option.ClientOption{option.WithHTTPClient(client)}
	if d.opts.driveEndpoint != "" {
		clientOpts = append(clientOpts, option.WithEndpoint(d.opts.driveEndpoint))
	}

	svc, err := drive.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("create drive service: %w", err)
	}
	d.svc = svc
	return svc, nil
}

// Credentials implements [CredentialProvider]. The token is returned in its
// current (possibly refreshed) form, JSON encoded.
func (d *driveBackend) Credentials() map[string]string {
	d.mu.Lock()
	ts := d.ts
	d.mu.Unlock()
	if ts == nil {
		return map[string]string{}
	}

	tok, err := ts.Token()
	if err != nil {
		d.logger.Warn().Str("func", "driveBackend.Credentials").Err(err).Msg("cannot read current drive token")
		return map[string]string{}
	}
	raw, err := json.Marshal(tok)
	if err != nil {
		return map[string]string{}
	}
	return map[string]string{FieldToken: string(raw)}
}

// Authenticate implements [Backend]. A stored token that still works is
// reused. Otherwise the OAuth consent URL (PKCE, offline access) is shown via
// ic and the returned code is exchanged for a token.
func (d *driveBackend) Authenticate(ctx context.Context, ic InteractiveContext) (bool, error) {
	if d.hasSession() && d.IsAuthenticated(ctx) {
		return true, nil
	}
	if ic == nil {
		return false, ErrInteractionRequired
	}

	verifier := oauth2.GenerateVerifier()
	authURL := d.conf.AuthCodeURL(uuid.NewString(), oauth2.AccessTypeOffline, oauth2.S256ChallengeOption(verifier))

	code, err := ic.Prompt(ctx, authURL)
	if errors.Is(err, ErrAuthDenied) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("drive consent prompt: %w", err)
	}
	code = strings.TrimSpace(code)
	if code == "" {
		return false, nil
	}

	tok, err := d.conf.Exchange(ctx, code, oauth2.VerifierOption(verifier))
	if err != nil {
		var re *oauth2.RetrieveError
		if errors.As(err, &re) && re.Response != nil &&
			(re.Response.StatusCode == http.StatusBadRequest || re.Response.StatusCode == http.StatusUnauthorized) {
			d.logger.Warn().Str("func", "driveBackend.Authenticate").Err(err).Msg("authorization code rejected")
			return false, nil
		}
		return false, mapDriveError("drive token exchange", err)
	}

	d.setToken(tok)
	d.logger.Info().Str("func", "driveBackend.Authenticate").Msg("drive authorized")
	return true, nil
}

// IsAuthenticated implements [Backend].
func (d *driveBackend) IsAuthenticated(ctx context.Context) bool {
	svc, err := d.service(ctx)
	if err != nil {
		return false
	}
	_, err = svc.About.Get().Fields("user").Context(ctx).Do()
	return err == nil
}

func (d *driveBackend) findFile(ctx context.Context, svc *drive.Service, name string) (*drive.File, error) {
	q := fmt.Sprintf("name = '%s' and trashed = false", escapeDriveQuery(name))
	list, err := svc.Files.List().
		Spaces(driveSpace).
		Q(q).
		Fields(googleapi.Field("files(" + driveFileFields + ")")).
		PageSize(1).
		Context(ctx).
		Do()
	if err != nil {
		return nil, mapDriveError("drive find "+name, err)
	}
	if len(list.Files) == 0 {
		return nil, nil
	}
	return list.Files[0], nil
}

// Upload implements [Backend]. The handle is the Drive file id.
func (d *driveBackend) Upload(ctx context.Context, id string, record []byte) (string, error) {
	if err := validObjectName(id); err != nil {
		return "", err
	}
	svc, err := d.service(ctx)
	if err != nil {
		return "", err
	}

	existing, err := d.findFile(ctx, svc, id)
	if err != nil {
		return "", err
	}

	var f *drive.File
	media := googleapi.ContentType("application/json")
	if existing != nil {
		f, err = svc.Files.Update(existing.Id, &drive.File{}).
			Media(bytes.NewReader(record), media).
			Fields("id").
			Context(ctx).
			Do()
	} else {
		f, err = svc.Files.Create(&drive.File{Name: id, Parents: []string{driveSpace}}).
			Media(bytes.NewReader(record), media).
			Fields("id").
			Context(ctx).
			Do()
	}
	if err != nil {
		return "", mapDriveError("drive upload "+id, err)
	}
	return f.Id, nil
}

// Download implements [Backend].
func (d *driveBackend) Download(ctx context.Context, id string) ([]byte, error) {
	svc, err := d.service(ctx)
	if err != nil {
		return nil, err
	}

	f, err := d.findFile(ctx, svc, id)
	if err != nil || f == nil {
		return nil, err
	}

	resp, err := svc.Files.Get(f.Id).Context(ctx).Download()
	if err != nil {
		if isDriveNotFound(err) {
			return nil, nil
		}
		return nil, mapDriveError("drive download "+id, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("drive download %s: %w: %w", id, ErrNetwork, err)
	}
	return data, nil
}

// List implements [Backend].
func (d *driveBackend) List(ctx context.Context) ([]models.RemoteFile, error) {
	svc, err := d.service(ctx)
	if err != nil {
		return nil, err
	}

	var files []models.RemoteFile
	err = svc.Files.List().
		Spaces(driveSpace).
		Q("trashed = false").
		Fields(googleapi.Field("nextPageToken, files(" + driveFileFields + ")")).
		PageSize(100).
		Pages(ctx, func(page *drive.FileList) error {
			for _, f := range page.Files {
				rf := models.RemoteFile{FileName: f.Name, SizeBytes: f.Size}
				if t, err := parseDriveTime(f.ModifiedTime); err == nil {
					rf.ModifiedTime = t
				}
				files = append(files, rf)
			}
			return nil
		})
	if err != nil {
		return nil, mapDriveError("drive list", err)
	}
	return files, nil
}

// Delete implements [Backend].
func (d *driveBackend) Delete(ctx context.Context, id string) (bool, error) {
	svc, err := d.service(ctx)
	if err != nil {
		return false, err
	}

	f, err := d.findFile(ctx, svc, id)
	if err != nil || f == nil {
		return false, err
	}

	if err = svc.Files.Delete(f.Id).Context(ctx).Do(); err != nil {
		if isDriveNotFound(err) {
			return false, nil
		}
		return false, mapDriveError("drive delete "+id, err)
	}
	return true, nil
}

// GetStorageQuota implements [Backend]. Limit is zero for unlimited accounts.
func (d *driveBackend) GetStorageQuota(ctx context.Context) (models.StorageQuota, error) {
	svc, err := d.service(ctx)
	if err != nil {
		return models.StorageQuota{}, err
	}

	about, err := svc.About.Get().Fields("storageQuota").Context(ctx).Do()
	if err != nil {
		return models.StorageQuota{}, mapDriveError("drive quota", err)
	}
	if about.StorageQuota == nil {
		return models.StorageQuota{}, nil
	}
	return models.StorageQuota{
		UsedBytes:  about.StorageQuota.Usage,
		TotalBytes: about.StorageQuota.Limit,
	}, nil
}

// Close implements [Backend].
func (d *driveBackend) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.svc = nil
	return nil
}

func parseDriveTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339, s)
}

func escapeDriveQuery(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `'`, `\'`)
}

func isDriveNotFound(err error) bool {
	var gErr *googleapi.Error
	return errors.As(err, &gErr) && gErr.Code == http.StatusNotFound
}

// mapDriveError translates Drive API failures. Drive reports rate limiting
// and quota exhaustion as 403 with a reason, so the reason wins over the code.
func mapDriveError(op string, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w", op, err)
	}

	var gErr *googleapi.Error
	if errors.As(err, &gErr) {
		code := gErr.Code
		for _, item := range gErr.Errors {
			switch item.Reason {
			case "rateLimitExceeded", "userRateLimitExceeded":
				code = http.StatusTooManyRequests
			case "storageQuotaExceeded", "quotaExceeded":
				code = http.StatusInsufficientStorage
			}
		}
		return fmt.Errorf("%s: %w", op, &StatusError{
			StatusCode: code,
			RetryAfter: parseRetryAfter(gErr.Header.Get("Retry-After"), time.Now()),
			Body:       gErr.Message,
		})
	}

	var re *oauth2.RetrieveError
	if errors.As(err, &re) {
		return fmt.Errorf("%s: %w: %w", op, ErrUnauthorized, err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return fmt.Errorf("%s: %w: %w", op, ErrNetwork, err)
	}

	return fmt.Errorf("%s: %w: %w", op, ErrProvider, err)
}
