package presenter

import (
	"fmt"
	"image"
	"log/slog"

	"github.com/soocke/pixel-motion-go/config"
	"github.com/soocke/pixel-motion-go/ui/model"
)

// RegionView shows the active capture region.
type RegionView interface{ SetRegionLabel(string) }

// RegionPresenter stores the region picked on screen and persists it. The
// region is used by the next capture start.
type RegionPresenter struct {
	model    *model.RegionModel
	cfg      *config.Config
	path     string
	view     RegionView
	logger   *slog.Logger
	onChange func(image.Rectangle)
}

func NewRegionPresenter(m *model.RegionModel, cfg *config.Config, path string, view RegionView, logger *slog.Logger, onChange func(image.Rectangle)) *RegionPresenter {
	return &RegionPresenter{model: m, cfg: cfg, path: path, view: view, logger: logger, onChange: onChange}
}

// SetRegion records r; an empty rectangle selects the full screen.
func (p *RegionPresenter) SetRegion(r image.Rectangle) {
	if p == nil || p.model == nil {
		return
	}
	p.model.SetRegion(r)
	r = p.model.Region()
	if p.cfg != nil {
		p.cfg.SetRegion(r)
		if p.path != "" {
			if err := p.cfg.Save(p.path); err != nil && p.logger != nil {
				p.logger.Error("save config", "error", err, "path", p.path)
			}
		}
	}
	p.Refresh()
	if p.onChange != nil {
		p.onChange(r)
	}
	if p.logger != nil {
		p.logger.Info("capture region set", "region", r.String(), "full_screen", r.Empty())
	}
}

// Clear selects the full screen.
func (p *RegionPresenter) Clear() { p.SetRegion(image.Rectangle{}) }

// Refresh pushes the current region to the view.
func (p *RegionPresenter) Refresh() {
	if p == nil || p.view == nil {
		return
	}
	p.view.SetRegionLabel(RegionText(p.model.Region()))
}

// RegionText formats a capture region for display.
func RegionText(r image.Rectangle) string {
	if r.Empty() {
		return "Region: full screen"
	}
	return fmt.Sprintf("Region: %dx%d at %d,%d", r.Dx(), r.Dy(), r.Min.X, r.Min.Y)
}
