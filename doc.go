/*
 * doc.go, part of gothermo.
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
 */

/*Package thermo is the main package of the goThermo library. It provides substance records, equations of state
and a mixture container, System, which evaluates thermodynamic properties of pure
substances and mixtures.



	**goThermo Capabilities**


    Substance records with the critical constants, one equation of state parameter
	block and up to 13 temperature correlations (DIPPR, Antoine, Wagner, polynomials).

    Cubic equations of state (van der Waals, SRK, Peng-Robinson 76 and 78) with Soave, Twu
	and Mathias-Copeman alpha functions, Peneloux volume translation, and the van der Waals,
	Panagiotopoulos-Reid and Huron-Vidal mixing rules.

    PC-SAFT for non-associating substances.

    Multiparameter equations in reduced Helmholtz energy form, including the 12-term
	Span-Wagner equations, mixed with quadratic reducing functions.

    Residual and ideal gas properties, fugacity coefficients, partial molar volumes,
	Joule-Thomson coefficient and speed of sound, all from exact derivatives of the
	reduced Helmholtz energy, obtained with hyperdual numbers.

    NRTL and Wilson activity models, and the gamma-phi bridge between them and the
	equations of state.

    Phase equilibria (bubble and dew points, two and three phase flashes, stability
	analysis, binary diagrams) are in the subpackage equil. Substance records can be
	read and written with the subpackage records.

All quantities are in SI units, with molar quantities per mol. The exceptions are the
PC-SAFT segment diameter (Angstrom) and the molecular weight (g/mol).*/
package thermo
