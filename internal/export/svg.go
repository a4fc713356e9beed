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
	"io"
	"strconv"
	"strings"

	svg "github.com/ajstarks/svgo"

	"gocoloring/internal/vector"
)

// WriteSVG writes one <path> per region in paint order. Regions carry their
// id, tag and a data-fillable marker so the file can be coloured elsewhere.
func WriteSVG(w io.Writer, p Page, opt Options) error {
	var buf bytes.Buffer
	canvas := svg.New(&buf)
	sz := num(p.Size)
	canvas.Startraw(
		fmt.Sprintf(`width="%s"`, sz),
		fmt.Sprintf(`height="%s"`, sz),
		fmt.Sprintf(`viewBox="0 0 %s %s"`, sz, sz),
	)
	if p.Title != "" {
		canvas.Title(p.Title)
	}
	canvas.Path(fmt.Sprintf("M0 0H%sV%sH0Z", sz, sz), "fill:"+svgColor(opt.background())+";stroke:none")
	canvas.Gid("design")
	for _, r := range p.Regions {
		st := opt.stroke(r)
		style := fmt.Sprintf("fill:%s;stroke:%s;stroke-width:%s;stroke-linejoin:%s",
			svgColor(r.Fill), svgColor(st.Color), num(st.Width), joinName(st.Join))
		canvas.Path(pathData(r.Boundary),
			fmt.Sprintf(`id="r%d"`, r.ID),
			fmt.Sprintf(`data-tag="%s"`, escAttr(r.Tag)),
			fmt.Sprintf(`data-fillable="%t"`, r.Fillable),
			style)
	}
	canvas.Gend()
	canvas.End()
	if _, err := w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("write svg: %w", err)
	}
	return nil
}

// pathData formats a boundary as SVG path data.
func pathData(p vector.Path) string {
	var b strings.Builder
	for i, c := range p.Cmds {
		if i > 0 {
			b.WriteByte(' ')
		}
		d := c.Data
		switch c.Op {
		case vector.MoveTo:
			b.WriteString("M" + num(d[0]) + " " + num(d[1]))
		case vector.LineTo:
			b.WriteString("L" + num(d[0]) + " " + num(d[1]))
		case vector.CubicTo:
			b.WriteString("C" + num(d[0]) + " " + num(d[1]) + " " + num(d[2]) + " " + num(d[3]) + " " + num(d[4]) + " " + num(d[5]))
		case vector.Close:
			b.WriteString("Z")
		}
	}
	return b.String()
}

// num prints v with at most 3 decimals and no trailing zeros.
func num(v float64) string {
	return strconv.FormatFloat(vector.FloatRound(v, 3), 'f', -1, 64)
}

func svgColor(c vector.Color) string { return c.Hex() }

func joinName(j vector.LineJoin) string {
	switch j {
	case vector.JoinRound:
		return "round"
	case vector.JoinBevel:
		return "bevel"
	}
	return "miter"
}

func escAttr(s string) string {
	r := strings.NewReplacer(`&`, "&amp;", `"`, "&quot;", "<", "&lt;", ">", "&gt;", "\n", " ", "\r", "")
	return r.Replace(s)
}
