// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"strings"
	"sync"

	"github.com/MKhiriev/go-pass-sync/internal/logger"
	"github.com/MKhiriev/go-pass-sync/internal/utils"
	"github.com/MKhiriev/go-pass-sync/models"
)

const (
	methodPropfind = "PROPFIND"
	methodMkcol    = "MKCOL"
)

const propfindListBody = `<?xml version="1.0" encoding="utf-8"?>
<d:propfind xmlns:d="DAV:"><d:prop><d:resourcetype/><d:getlastmodified/><d:getcontentlength/></d:prop></d:propfind>`

const propfindQuotaBody = `<?xml version="1.0" encoding="utf-8"?>
<d:propfind xmlns:d="DAV:"><d:prop><d:quota-used-bytes/><d:quota-available-bytes/></d:prop></d:propfind>`

// webDAVBackend stores each record as a file inside a dedicated collection
// on a WebDAV server. Authentication is HTTP Basic.
type webDAVBackend struct {
	client *utils.HTTPClient
	folder string

	mu          sync.Mutex
	folderReady bool

	logger *logger.Logger
}

func newWebDAVBackend(desc models.BackendDescriptor, o options) (Backend, error) {
	baseURL, err := normalizeBaseURL(desc.Setting(FieldServerURL))
	if err != nil {
		return nil, fmt.Errorf("invalid webdav server url: %w", err)
	}

	folder := strings.Trim(desc.Setting(FieldFolder), "/")
	if folder == "" {
		folder = defaultFolder
	}

	client := utils.NewBackendHTTPClient(baseURL, o.timeout)
	client.SetBasicAuth(desc.Setting(FieldUsername), desc.Setting(FieldPassword))

	return &webDAVBackend{client: client, folder: folder, logger: o.logger}, nil
}

func (w *webDAVBackend) Type() models.BackendType { return models.BackendWebDAV }

func (w *webDAVBackend) folderPath() string {
	return "/" + w.folder + "/"
}

func (w *webDAVBackend) objectPath(id string) string {
	return w.folderPath() + url.PathEscape(id)
}

// Authenticate implements [Backend]. It checks the credentials against the
// sync collection and creates the collection when it does not exist yet.
func (w *webDAVBackend) Authenticate(ctx context.Context, _ InteractiveContext) (bool, error) {
	err := w.ensureFolder(ctx)
	if errors.Is(err, ErrUnauthorized) || errors.Is(err, ErrForbidden) {
		w.logger.Warn().Str("func", "webDAVBackend.Authenticate").Err(err).Msg("webdav credentials rejected")
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// IsAuthenticated implements [Backend].
func (w *webDAVBackend) IsAuthenticated(ctx context.Context) bool {
	resp, err := w.client.R().
		SetContext(ctx).
		SetHeader("Depth", "0").
		Execute(methodPropfind, "/")
	if err != nil {
		return false
	}
	return mapHTTPError(resp) == nil
}

func (w *webDAVBackend) ensureFolder(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.folderReady {
		return nil
	}

	resp, err := w.client.R().
		SetContext(ctx).
		SetHeader("Depth", "0").
		Execute(methodPropfind, w.folderPath())
	if err != nil {
		return wrapTransportError("webdav propfind folder", err)
	}

	if resp.StatusCode() == http.StatusNotFound {
		resp, err = w.client.R().SetContext(ctx).Execute(methodMkcol, w.folderPath())
		if err != nil {
			return wrapTransportError("webdav mkcol", err)
		}
		// 405 means the collection appeared concurrently.
		if resp.StatusCode() != http.StatusMethodNotAllowed {
			if err = mapHTTPError(resp); err != nil {
				return fmt.Errorf("webdav mkcol: %w", err)
			}
		}
		w.logger.Info().Str("func", "webDAVBackend.ensureFolder").Str("folder", w.folder).Msg("created sync folder")
	} else if err = mapHTTPError(resp); err != nil {
		return fmt.Errorf("webdav propfind folder: %w", err)
	}

	w.folderReady = true
	return nil
}

// Upload implements [Backend]. The handle is the object path on the server.
func (w *webDAVBackend) Upload(ctx context.Context, id string, record []byte) (string, error) {
	if err := validObjectName(id); err != nil {
		return "", err
	}
	if err := w.ensureFolder(ctx); err != nil {
		return "", err
	}

	resp, err := w.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(record).
		Put(w.objectPath(id))
	if err != nil {
		return "", wrapTransportError("webdav upload", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return "", fmt.Errorf("webdav upload %s: %w", id, err)
	}

	return w.objectPath(id), nil
}

// Download implements [Backend].
func (w *webDAVBackend) Download(ctx context.Context, id string) ([]byte, error) {
	if err := validObjectName(id); err != nil {
		return nil, err
	}

	resp, err := w.client.R().SetContext(ctx).Get(w.objectPath(id))
	if err != nil {
		return nil, wrapTransportError("webdav download", err)
	}
	if resp.StatusCode() == http.StatusNotFound {
		return nil, nil
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, fmt.Errorf("webdav download %s: %w", id, err)
	}

	return resp.Body(), nil
}

// List implements [Backend]. A missing sync collection yields an empty list.
func (w *webDAVBackend) List(ctx context.Context) ([]models.RemoteFile, error) {
	resp, err := w.client.R().
		SetContext(ctx).
		SetHeader("Depth", "1").
		SetHeader("Content-Type", "application/xml").
		SetBody(propfindListBody).
		Execute(methodPropfind, w.folderPath())
	if err != nil {
		return nil, wrapTransportError("webdav list", err)
	}
	if resp.StatusCode() == http.StatusNotFound {
		return nil, nil
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, fmt.Errorf("webdav list: %w", err)
	}

	ms, err := parseMultistatus(resp.Body())
	if err != nil {
		return nil, fmt.Errorf("webdav list: %w: %v", ErrProvider, err)
	}

	files := make([]models.RemoteFile, 0, len(ms.Responses))
	for _, r := range ms.Responses {
		prop := r.prop()
		if prop.ResourceType.Collection != nil {
			continue
		}

		href, err := url.PathUnescape(r.Href)
		if err != nil {
			href = r.Href
		}
		f := models.RemoteFile{FileName: path.Base(strings.TrimRight(href, "/"))}
		if t, err := http.ParseTime(prop.LastModified); err == nil {
			f.ModifiedTime = t
		}
		if n, err := strconv.ParseInt(strings.TrimSpace(prop.ContentLength), 10, 64); err == nil {
			f.SizeBytes = n
		}
		files = append(files, f)
	}

	return files, nil
}

// Delete implements [Backend].
func (w *webDAVBackend) Delete(ctx context.Context, id string) (bool, error) {
	if err := validObjectName(id); err != nil {
		return false, err
	}

	resp, err := w.client.R().SetContext(ctx).Delete(w.objectPath(id))
	if err != nil {
		return false, wrapTransportError("webdav delete", err)
	}
	if resp.StatusCode() == http.StatusNotFound {
		return false, nil
	}
	if err = mapHTTPError(resp); err != nil {
		return false, fmt.Errorf("webdav delete %s: %w", id, err)
	}
	return true, nil
}

// GetStorageQuota implements [Backend] using the RFC 4331 quota properties.
// Servers that do not report quota yield a zero value.
func (w *webDAVBackend) GetStorageQuota(ctx context.Context) (models.StorageQuota, error) {
	resp, err := w.client.R().
		SetContext(ctx).
		SetHeader("Depth", "0").
		SetHeader("Content-Type", "application/xml").
		SetBody(propfindQuotaBody).
		Execute(methodPropfind, "/")
	if err != nil {
		return models.StorageQuota{}, wrapTransportError("webdav quota", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.StorageQuota{}, fmt.Errorf("webdav quota: %w", err)
	}

	ms, err := parseMultistatus(resp.Body())
	if err != nil || len(ms.Responses) == 0 {
		return models.StorageQuota{}, nil
	}

	prop := ms.Responses[0].prop()
	used, _ := strconv.ParseInt(strings.TrimSpace(prop.QuotaUsed), 10, 64)
	var q models.StorageQuota
	q.UsedBytes = used
	if avail, err := strconv.ParseInt(strings.TrimSpace(prop.QuotaAvailable), 10, 64); err == nil && avail >= 0 {
		q.TotalBytes = used + avail
	}
	return q, nil
}

// Close implements [Backend].
func (w *webDAVBackend) Close() error {
	w.client.GetClient().CloseIdleConnections()
	return nil
}

type davMultistatus struct {
	XMLName   xml.Name      `xml:"DAV: multistatus"`
	Responses []davResponse `xml:"DAV: response"`
}

type davResponse struct {
	Href      string        `xml:"DAV: href"`
	Propstats []davPropstat `xml:"DAV: propstat"`
}

type davPropstat struct {
	Prop   davProp `xml:"DAV: prop"`
	Status string  `xml:"DAV: status"`
}

type davProp struct {
	ResourceType   davResourceType `xml:"DAV: resourcetype"`
	LastModified   string          `xml:"DAV: getlastmodified"`
	ContentLength  string          `xml:"DAV: getcontentlength"`
	QuotaUsed      string          `xml:"DAV: quota-used-bytes"`
	QuotaAvailable string          `xml:"DAV: quota-available-bytes"`
}

type davResourceType struct {
	Collection *struct{} `xml:"DAV: collection"`
}

// prop merges the properties of every successful propstat.
func (r davResponse) prop() davProp {
	var out davProp
	for _, ps := range r.Propstats {
		if ps.Status != "" && !strings.Contains(ps.Status, " 200 ") {
			continue
		}
		if ps.Prop.ResourceType.Collection != nil {
			out.ResourceType = ps.Prop.ResourceType
		}
		if ps.Prop.LastModified != "" {
			out.LastModified = ps.Prop.LastModified
		}
		if ps.Prop.ContentLength != "" {
			out.ContentLength = ps.Prop.ContentLength
		}
		if ps.Prop.QuotaUsed != "" {
			out.QuotaUsed = ps.Prop.QuotaUsed
		}
		if ps.Prop.QuotaAvailable != "" {
			out.QuotaAvailable = ps.Prop.QuotaAvailable
		}
	}
	return out
}

func parseMultistatus(body []byte) (davMultistatus, error) {
	var ms davMultistatus
	if err := xml.Unmarshal(body, &ms); err != nil {
		return davMultistatus{}, err
	}
	return ms, nil
}
