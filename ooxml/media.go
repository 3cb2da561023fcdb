package ooxml

import (
	"path"

	"github.com/kpaulsen/brandlens/assets"
	"github.com/kpaulsen/brandlens/container"
	"github.com/kpaulsen/brandlens/format"
	"github.com/kpaulsen/brandlens/model"
)

// dominantColorLimit caps how many colors are kept per media asset.
const dominantColorLimit = 5

// parseMedia classifies embedded media entries and extracts their
// dominant colors. Only image-typed entries are considered; entries that
// fail to read are skipped.
func parseMedia(c *container.Container, o *model.DocumentObservation) {
	for _, e := range c.FindEntries(mediaPattern) {
		name := path.Base(e.Name())
		if !format.IsImageExt(path.Ext(name)) {
			continue
		}

		data, err := e.ReadBytes()
		if err != nil {
			continue
		}

		cls := assets.Classify(name, int64(len(data)))
		o.MediaAssets = append(o.MediaAssets, model.MediaAsset{
			Name:       name,
			Data:       data,
			Size:       int64(len(data)),
			IsLogo:     cls.IsLogo,
			Confidence: cls.Confidence,
			Colors:     assets.MediaColors(name, data, dominantColorLimit),
		})
	}
}
