package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/gofiber/fiber/v3"

	"camcore"
	"camcore/cnc"
	"camcore/gcode"
	"camcore/internal/config"
	"camcore/internal/logging"
	"camcore/internal/raster"
	"camcore/internal/store"
	"camcore/svg"
)

const (
	kindVector = "vector"
	kindRelief = "relief"
)

// Handler serves synthesis requests. Options posted with a request are
// applied over the machine profile.
type Handler struct {
	store   *store.Store
	profile *config.Profile
}

func NewHandler(s *store.Store, p *config.Profile) *Handler {
	if p == nil {
		p = config.DefaultProfile()
	}
	return &Handler{store: s, profile: p}
}

type jobResponse struct {
	Job     *store.Job    `json:"job"`
	Created bool          `json:"created"`
	Object  *gcode.Object `json:"object"`
}

type reliefParams struct {
	cnc.ReliefOptions
	Width  int `json:"width,omitempty"`
	Height int `json:"height,omitempty"`
}

// Vector synthesizes a profile job from a multipart "file" SVG and an
// optional "params" JSON object of vector options.
func (h *Handler) Vector(c fiber.Ctx) error {
	data, err := formFile(c, "file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	opts := h.profile.Vector
	if err := decodeParams(c.FormValue("params"), &opts); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if opts.Mode != "" && opts.Mode != cnc.ModePath && opts.Mode != cnc.ModeOutline {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": fmt.Sprintf("invalid mode %q", opts.Mode)})
	}

	return h.run(c, kindVector, opts, data, func() (*gcode.Object, error) {
		doc, err := camcore.ParseSVG(bytes.NewReader(data), svg.Options{Tolerance: h.profile.Tolerance})
		if err != nil {
			return nil, err
		}
		return camcore.VectorObject(doc, opts)
	})
}

// Relief synthesizes a relief job from a multipart "file" image and an
// optional "params" JSON object of relief options plus the sampled
// "width" and "height" in pixels.
func (h *Handler) Relief(c fiber.Ctx) error {
	data, err := formFile(c, "file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	p := reliefParams{ReliefOptions: h.profile.Relief}
	if err := decodeParams(c.FormValue("params"), &p); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	return h.run(c, kindRelief, p, data, func() (*gcode.Object, error) {
		hm, err := raster.ReadBytes(data, raster.Options{Width: p.Width, Height: p.Height})
		if err != nil {
			return nil, err
		}
		return camcore.ReliefObject(hm, p.ReliefOptions)
	})
}

// run returns the stored job for an identical earlier request, or
// synthesizes and stores a new one.
func (h *Handler) run(c fiber.Ctx, kind string, params any, input []byte, synth func() (*gcode.Object, error)) error {
	ctx := c.Context()
	raw, err := json.Marshal(params)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to encode params"})
	}
	hash := store.Hash(kind, raw, input)

	if job, err := h.store.FindByHash(ctx, hash); err == nil {
		obj, err := storedObject(job, params)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		}
		c.Set(HeaderJobID, job.ID)
		return c.JSON(jobResponse{Job: job, Object: obj})
	} else if !errors.Is(err, store.ErrNotFound) {
		logging.Logger().Error("server: job lookup failed", "kind", kind, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "job lookup failed"})
	}

	obj, err := synth()
	if err != nil {
		status := fiber.StatusUnprocessableEntity
		if errors.Is(err, camcore.ErrUnsupportedType) {
			status = fiber.StatusBadRequest
		}
		return c.Status(status).JSON(fiber.Map{"error": err.Error()})
	}

	job, created, err := h.store.Save(ctx, store.Job{
		Kind:   kind,
		Hash:   hash,
		Params: string(raw),
		Gcode:  camcore.Encode(obj),
	})
	if err != nil {
		logging.Logger().Error("server: job save failed", "kind", kind, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "job save failed"})
	}
	logging.Logger().Info("server: job stored", "id", job.ID, "kind", kind, "lines", len(obj.Data))

	status := fiber.StatusOK
	if created {
		status = fiber.StatusCreated
	}
	c.Set(HeaderJobID, job.ID)
	return c.Status(status).JSON(jobResponse{Job: job, Created: created, Object: obj})
}

// storedObject rebuilds the program object of a stored job.
func storedObject(job *store.Job, params any) (*gcode.Object, error) {
	var info gcode.ModelInfo
	switch p := params.(type) {
	case cnc.VectorOptions:
		mode := p.Mode
		if mode == "" {
			mode = cnc.ModePath
		}
		info = gcode.ModelInfo{Type: p.Type, Mode: string(mode), Params: p, Translation: p.Translation}
	case reliefParams:
		info = gcode.ModelInfo{Type: p.Type, Mode: kindRelief, Params: p.ReliefOptions, Translation: p.Translation}
	}
	if info.Type == "" {
		info.Type = gcode.TypeCNC
	}
	obj := camcore.Decode(job.Gcode, info)
	if obj == nil {
		return nil, fmt.Errorf("job %s: %w", job.ID, camcore.ErrUnsupportedType)
	}
	return obj, nil
}

// Job returns the metadata of a stored job.
func (h *Handler) Job(c fiber.Ctx) error {
	job, err := h.store.Get(c.Context(), c.Params("id"))
	if err != nil {
		return jobError(c, err)
	}
	return c.JSON(job)
}

// JobGcode returns the G-code text of a stored job.
func (h *Handler) JobGcode(c fiber.Ctx) error {
	job, err := h.store.Get(c.Context(), c.Params("id"))
	if err != nil {
		return jobError(c, err)
	}
	c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
	return c.SendString(job.Gcode)
}

func jobError(c fiber.Ctx, err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "job not found"})
	}
	logging.Logger().Error("server: job read failed", "error", err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "job read failed"})
}

func formFile(c fiber.Ctx, key string) ([]byte, error) {
	file, err := c.FormFile(key)
	if err != nil {
		return nil, fmt.Errorf("%s required in multipart/form-data", key)
	}
	f, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open %s", key)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s", key)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%s is empty", key)
	}
	return data, nil
}

// decodeParams applies a JSON object over dst. Unknown keys are an error.
func decodeParams(s string, dst any) error {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	dec := json.NewDecoder(strings.NewReader(s))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("invalid params: %w", err)
	}
	return nil
}
