/*
 * plot_test.go, part of gothermo.
 *
 *
 * Copyright 2024 Raul Mera <rauldotmeraatusachdotcl>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 *
 */

package thermoplot

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rmera/gothermo/equil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

//an ideal benzene-toluene diagram at 1 atm, from Raoult's law.
func txy() *equil.Diagram {
	return &equil.Diagram{Isobaric: true, Fixed: 101325,
		X:      []float64{0, 0.25, 0.5, 0.75, 1},
		Y:      []float64{0, 0.45, 0.71, 0.88, 1},
		Values: []float64{383.8, 375.2, 368.2, 362.4, 353.3}}
}

func TestTxyPlot(Te *testing.T) {
	name := filepath.Join(Te.TempDir(), "bt")
	require.NoError(Te, TxyPlot(txy(), "benzene-toluene", name))
	info, err := os.Stat(name + ".png")
	require.NoError(Te, err)
	assert.Greater(Te, info.Size(), int64(0))
	assert.Error(Te, PxyPlot(txy(), "wrong", name))
	second := txy()
	second.Values = []float64{393.8, 385.2, 378.2, 372.4, 363.3}
	require.NoError(Te, DiagramsPlot([]*equil.Diagram{txy(), second}, []string{"1 atm", "1.3 atm"}, "two", name+"2"))
	assert.Error(Te, DiagramsPlot([]*equil.Diagram{txy()}, []string{"a", "b"}, "bad", name))
	short := &equil.Diagram{X: []float64{0}, Y: []float64{0}, Values: []float64{1e5}}
	assert.Error(Te, PxyPlot(short, "short", name))
}

func TestCurveColor(Te *testing.T) {
	for i := 0; i < 6; i++ {
		c := curveColor(i, 6)
		assert.Equal(Te, uint8(255), c.A)
		//never yellow
		assert.False(Te, c.R > 200 && c.G > 200 && c.B < 50)
	}
}
