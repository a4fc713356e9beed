/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"io"
	"math"

	"github.com/gogpu/gg"
	xdraw "golang.org/x/image/draw"

	"gocoloring/internal/vector"
)

// ThumbSize is the default thumbnail edge in pixels.
const ThumbSize = 150

// Render rasterises p at opt.Scale pixels per canvas unit: each region's
// fill, then its outline stroked with the region's width and join.
func Render(p Page, opt Options) (*image.RGBA, error) {
	k := opt.scale()
	px := int(math.Ceil(p.Size * k))
	if px < 1 {
		px = 1
	}
	dc := gg.NewContext(px, px)
	defer func() { _ = dc.Close() }()
	dc.ClearWithColor(gg.FromColor(opt.background().RGBA()))
	m := vector.Scale(k, k)
	for _, r := range p.Regions {
		path := r.Boundary.Transform(m)
		if r.Fill.A > 0 {
			tracePath(dc, path)
			dc.SetColor(r.Fill.RGBA())
			if err := dc.Fill(); err != nil {
				return nil, fmt.Errorf("fill region %d: %w", r.ID, err)
			}
		}
		st := opt.stroke(r)
		if st.Width <= 0 || st.Color.A == 0 {
			continue
		}
		tracePath(dc, path)
		dc.SetColor(st.Color.RGBA())
		dc.SetLineWidth(math.Max(st.Width*k, 1))
		dc.SetLineJoin(lineJoin(st.Join))
		if err := dc.Stroke(); err != nil {
			return nil, fmt.Errorf("stroke region %d: %w", r.ID, err)
		}
	}
	out := dc.Image()
	img, ok := out.(*image.RGBA)
	if !ok {
		return nil, fmt.Errorf("render: unexpected image type %T", out)
	}
	return img, nil
}

func tracePath(dc *gg.Context, p vector.Path) {
	for _, c := range p.Cmds {
		d := c.Data
		switch c.Op {
		case vector.MoveTo:
			dc.MoveTo(d[0], d[1])
		case vector.LineTo:
			dc.LineTo(d[0], d[1])
		case vector.CubicTo:
			dc.CubicTo(d[0], d[1], d[2], d[3], d[4], d[5])
		case vector.Close:
			dc.ClosePath()
		}
	}
}

func lineJoin(j vector.LineJoin) gg.LineJoin {
	switch j {
	case vector.JoinRound:
		return gg.LineJoinRound
	case vector.JoinBevel:
		return gg.LineJoinBevel
	}
	return gg.LineJoinMiter
}

// WritePNG renders p and encodes it as PNG.
func WritePNG(w io.Writer, p Page, opt Options) error {
	img, err := Render(p, opt)
	if err != nil {
		return err
	}
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

// Thumbnail renders p as a PNG of px by px pixels (ThumbSize when px <= 0).
// The design is drawn at twice the size and downsampled.
func Thumbnail(p Page, px int) ([]byte, error) {
	if px <= 0 {
		px = ThumbSize
	}
	if p.Size <= 0 {
		return nil, fmt.Errorf("thumbnail: canvas size %g: %w", p.Size, vector.ErrInvalidGeometry)
	}
	big, err := Render(p, Options{Scale: 2 * float64(px) / p.Size})
	if err != nil {
		return nil, err
	}
	small := image.NewRGBA(image.Rect(0, 0, px, px))
	xdraw.CatmullRom.Scale(small, small.Bounds(), big, big.Bounds(), xdraw.Src, nil)
	var buf bytes.Buffer
	if err := png.Encode(&buf, small); err != nil {
		return nil, fmt.Errorf("encode thumbnail: %w", err)
	}
	return buf.Bytes(), nil
}
