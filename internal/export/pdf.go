/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"

	"gocoloring/internal/version"
	"gocoloring/internal/vector"
)

// WritePDF writes p as a single square vector page. One canvas unit is one
// point times opt.Scale; curves stay cubic Béziers.
func WritePDF(w io.Writer, p Page, opt Options) error {
	k := opt.scale()
	side := p.Size * k
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr: "pt",
		Size:    gofpdf.SizeType{Wd: side, Ht: side},
	})
	if p.Title != "" {
		pdf.SetTitle(p.Title, true)
	}
	pdf.SetCreator("gocoloring "+version.String(), false)
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	setFillColor(pdf, opt.background())
	pdf.Rect(0, 0, side, side, "F")

	m := vector.Scale(k, k)
	for _, r := range p.Regions {
		st := opt.stroke(r)
		setFillColor(pdf, r.Fill)
		setDrawColor(pdf, st.Color)
		pdf.SetLineWidth(st.Width * k)
		pdf.SetLineJoinStyle(joinName(st.Join))
		for _, c := range r.Boundary.Transform(m).Cmds {
			d := c.Data
			switch c.Op {
			case vector.MoveTo:
				pdf.MoveTo(d[0], d[1])
			case vector.LineTo:
				pdf.LineTo(d[0], d[1])
			case vector.CubicTo:
				pdf.CurveBezierCubicTo(d[0], d[1], d[2], d[3], d[4], d[5])
			case vector.Close:
				pdf.ClosePath()
			}
		}
		style := "FD"
		if st.Width <= 0 {
			style = "F"
		}
		pdf.DrawPath(style)
	}
	if err := pdf.Error(); err != nil {
		return fmt.Errorf("build pdf: %w", err)
	}
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

func setDrawColor(pdf *gofpdf.Fpdf, c vector.Color) {
	pdf.SetDrawColor(int(c.R), int(c.G), int(c.B))
}

func setFillColor(pdf *gofpdf.Fpdf, c vector.Color) {
	pdf.SetFillColor(int(c.R), int(c.G), int(c.B))
}
