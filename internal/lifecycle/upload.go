// internal/lifecycle/upload.go
package lifecycle

import (
	"bytes"
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"debatecore/internal/gateway"
	"debatecore/internal/models"
)

// FileUploader is the subset of the gateway an upload needs
type FileUploader interface {
	UploadFile(ctx context.Context, filename string, r io.Reader) (models.UploadReceipt, error)
}

// Refresher triggers one out-of-band status fetch
type Refresher interface {
	Refresh() bool
}

// Upload is a file selected for ingestion
type Upload struct {
	Name string
	Data []byte
}

// UploadState is the observable state of the upload lifecycle
type UploadState = OperationState[models.UploadReceipt]

// UploadController sends one file at a time. A successful upload
// triggers exactly one status refresh.
type UploadController struct {
	gw        FileUploader
	refresher Refresher
	op        *operation[models.UploadReceipt]
}

// NewUploadController builds a controller. refresher may be nil.
func NewUploadController(gw FileUploader, refresher Refresher, onChange func(UploadState), opts ...Option) *UploadController {
	s := buildSettings(opts)
	return &UploadController{
		gw:        gw,
		refresher: refresher,
		op:        newOperation("upload", s, onChange),
	}
}

// Submit uploads f. A missing selection returns a ValidationError and a
// submit during an outstanding upload returns ErrInFlight.
func (c *UploadController) Submit(f Upload) error {
	if strings.TrimSpace(f.Name) == "" || f.Data == nil {
		return &ValidationError{Field: "file", Reason: "no file selected"}
	}
	name := filepath.Base(f.Name)
	data := f.Data

	err := c.op.begin(
		func(ctx context.Context) (models.UploadReceipt, error) {
			return c.gw.UploadFile(ctx, name, bytes.NewReader(data))
		},
		func(receipt models.UploadReceipt, err error) UploadState {
			return c.settle(name, receipt, err)
		},
		c.afterSettle,
	)
	if err == nil {
		c.op.logger.Info("upload started", zap.String("file", name), zap.Int("bytes", len(data)))
	}
	return err
}

func (c *UploadController) settle(name string, receipt models.UploadReceipt, err error) UploadState {
	if err == nil {
		if receipt.Filename == "" {
			receipt.Filename = name
		}
		c.op.logger.Info("upload succeeded", zap.String("file", name), zap.String("message", receipt.Message))
		return UploadState{Phase: Succeeded, Payload: receipt}
	}

	msg := "upload failed"
	var be *gateway.BackendError
	var te *gateway.TransportError
	switch {
	case errors.As(err, &be) && be.Message != "":
		msg = be.Message
	case errors.As(err, &te) && te.Message != "":
		msg = te.Message
	}
	c.op.logger.Error("upload failed", zap.String("file", name), zap.Error(err))
	return UploadState{Phase: Failed, Message: msg, Err: err}
}

func (c *UploadController) afterSettle(s UploadState) {
	if s.Phase != Succeeded || c.refresher == nil {
		return
	}
	if !c.refresher.Refresh() {
		c.op.logger.Debug("status refresh skipped, poller not running")
	}
}

// State returns the current state
func (c *UploadController) State() UploadState {
	return c.op.current()
}

// Wait blocks until no upload is outstanding
func (c *UploadController) Wait() {
	c.op.wait()
}

// Close detaches the controller. An outstanding upload completes but
// its result is discarded and no refresh is triggered.
func (c *UploadController) Close() {
	c.op.close()
}
