/*
 * files.go, part of gothermo.
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

package records

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"gopkg.in/yaml.v3"
)

//Error is the error type of the records package.
type Error struct {
	message  string
	filename string
	deco     []string
	critical bool
}

func newError(message, filename, caller string) Error {
	return Error{message: message, filename: filename, deco: []string{caller}, critical: true}
}

//Error returns a string with an error message.
func (err Error) Error() string {
	if err.filename == "" {
		return fmt.Sprintf("records %v: %s", err.deco, err.message)
	}
	return fmt.Sprintf("records %v, file %s: %s", err.deco, err.filename, err.message)
}

//Decorate will add the dec string to the decoration slice of strings of the error,
//and return the resulting slice.
func (err Error) Decorate(dec string) []string {
	if dec == "" {
		return err.deco
	}
	err.deco = append(err.deco, dec)
	return err.deco
}

//FileName returns the name of the file that caused the error, if any.
func (err Error) FileName() string { return err.filename }

//Critical returns whether the error is critical or it can be ignored.
func (err Error) Critical() bool { return err.critical }

//errDecorate adds caller, and the file name if it is missing, to a records Error.
//Other errors become records Errors.
func errDecorate(err error, filename, caller string) error {
	e, ok := err.(Error)
	if !ok {
		return newError(err.Error(), filename, caller)
	}
	if e.filename == "" {
		e.filename = filename
	}
	e.deco = e.Decorate(caller)
	return e
}

type compression int

const (
	noCompression compression = iota
	gzipCompression
	zstdCompression
)

//format returns the compression and the serialization format ("json" or "yaml")
//of a file, from its name.
func format(name string) (compression, string, error) {
	lower := strings.ToLower(name)
	comp := noCompression
	switch filepath.Ext(lower) {
	case ".gz":
		comp = gzipCompression
		lower = strings.TrimSuffix(lower, ".gz")
	case ".zst":
		comp = zstdCompression
		lower = strings.TrimSuffix(lower, ".zst")
	}
	switch filepath.Ext(lower) {
	case ".json":
		return comp, "json", nil
	case ".yaml", ".yml":
		return comp, "yaml", nil
	}
	return comp, "", fmt.Errorf("can't tell the format from the extension")
}

//zstdReadCloser gives a zstd decoder the io.ReadCloser signature.
type zstdReadCloser struct {
	*zstd.Decoder
}

func (z zstdReadCloser) Close() error {
	z.Decoder.Close()
	return nil
}

//nopWriteCloser is used for uncompressed files.
type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }

//Decode reads a File in the given format ("json" or "yaml") from r.
func Decode(r io.Reader, form string) (*File, error) {
	F := new(File)
	var err error
	switch form {
	case "json":
		err = json.NewDecoder(r).Decode(F)
	case "yaml":
		err = yaml.NewDecoder(r).Decode(F)
	default:
		err = fmt.Errorf("unknown format %q", form)
	}
	if err != nil {
		return nil, newError(err.Error(), "", "Decode")
	}
	return F, nil
}

//Encode writes F to w in the given format.
func Encode(w io.Writer, F *File, form string) error {
	var err error
	switch form {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		err = enc.Encode(F)
	case "yaml":
		enc := yaml.NewEncoder(w)
		err = enc.Encode(F)
		if err == nil {
			err = enc.Close()
		}
	default:
		err = fmt.Errorf("unknown format %q", form)
	}
	if err != nil {
		return newError(err.Error(), "", "Encode")
	}
	return nil
}

//ReadFile reads a substance file. The format is taken from the extension: .json, .yaml
//or .yml, optionally followed by .gz or .zst for compressed files.
func ReadFile(name string) (*File, error) {
	comp, form, err := format(name)
	if err != nil {
		return nil, newError(err.Error(), name, "ReadFile")
	}
	f, err := os.Open(name)
	if err != nil {
		return nil, newError(err.Error(), name, "ReadFile")
	}
	defer f.Close()
	var r io.ReadCloser
	buf := bufio.NewReader(f)
	switch comp {
	case gzipCompression:
		r, err = gzip.NewReader(buf)
	case zstdCompression:
		var d *zstd.Decoder
		d, err = zstd.NewReader(buf)
		r = zstdReadCloser{d}
	default:
		r = io.NopCloser(buf)
	}
	if err != nil {
		return nil, newError(err.Error(), name, "ReadFile")
	}
	defer r.Close()
	F, err := Decode(r, form)
	if err != nil {
		return nil, errDecorate(err, name, "ReadFile")
	}
	return F, nil
}

//WriteFile writes F to the file name, in the format given by its extension.
func WriteFile(name string, F *File) error {
	comp, form, err := format(name)
	if err != nil {
		return newError(err.Error(), name, "WriteFile")
	}
	f, err := os.Create(name)
	if err != nil {
		return newError(err.Error(), name, "WriteFile")
	}
	defer f.Close()
	var w io.WriteCloser
	switch comp {
	case gzipCompression:
		w, err = gzip.NewWriterLevel(f, gzip.BestCompression)
	case zstdCompression:
		w, err = zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
	default:
		w = nopWriteCloser{f}
	}
	if err != nil {
		return newError(err.Error(), name, "WriteFile")
	}
	if err = Encode(w, F, form); err != nil {
		w.Close()
		return errDecorate(err, name, "WriteFile")
	}
	if err = w.Close(); err != nil {
		return newError(err.Error(), name, "WriteFile")
	}
	return f.Close()
}
