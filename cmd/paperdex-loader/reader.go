// Streaming reads over arXiv metadata parquet shards.
// Supports resume by skipping whole row groups up to the saved offset.
package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/parquet-go/parquet-go"
)

// parquetReader reads metadata shards with skip support.
type parquetReader struct {
	dataDir string
	files   []string
}

// newParquetReader scans dataDir for parquet shards.
func newParquetReader(dataDir string) (*parquetReader, error) {
	pattern := filepath.Join(dataDir, "*.parquet")
	files, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("glob parquet files: %w", err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no parquet files found in %s", dataDir)
	}
	sort.Strings(files)
	log.Printf("found %d parquet files in %s", len(files), dataDir)
	return &parquetReader{dataDir: dataDir, files: files}, nil
}

// readPapersCallback runs for every row. fileIndex and rowNum locate the
// row within the shard list, so the caller can record a resumable cursor
// position. Returning false stops the read.
type readPapersCallback func(row *arxivRow, fileIndex, rowNum int) bool

// ReadPapers streams rows starting at fileIndex/rowOffset. maxRows=0 means
// unlimited.
func (r *parquetReader) ReadPapers(fileIndex, rowOffset, maxRows int, cb readPapersCallback) error {
	remaining := maxRows

	for fi := fileIndex; fi < len(r.files); fi++ {
		skipRows := 0
		if fi == fileIndex {
			skipRows = rowOffset
		}

		n, err := r.readFile(r.files[fi], fi, skipRows, remaining, cb)
		if err != nil {
			return fmt.Errorf("read %s: %w", filepath.Base(r.files[fi]), err)
		}

		if maxRows > 0 {
			remaining -= n
			if remaining <= 0 {
				break
			}
		}
	}
	return nil
}

// paperColumns holds the leaf-level indexes of the columns we consume.
type paperColumns struct {
	id         int
	title      int
	abstract   int
	authors    int
	categories int
	updateDate int
}

// resolvePaperColumns finds leaf column indexes by name. Missing columns
// stay -1 and their fields come back empty.
func resolvePaperColumns(pf *parquet.File) paperColumns {
	cols := paperColumns{
		id: -1, title: -1, abstract: -1,
		authors: -1, categories: -1, updateDate: -1,
	}
	for i, path := range pf.Schema().Columns() {
		if len(path) == 0 {
			continue
		}
		switch path[0] {
		case "id":
			cols.id = i
		case "title":
			cols.title = i
		case "abstract":
			cols.abstract = i
		case "authors":
			cols.authors = i
		case "categories":
			cols.categories = i
		case "update_date":
			cols.updateDate = i
		}
	}
	return cols
}

// readFile reads one shard, skipping the first skipRows rows.
func (r *parquetReader) readFile(
	path string, fileIndex, skipRows, maxRows int, cb readPapersCallback,
) (int, error) {
	h, err := openParquet(path)
	if err != nil {
		return 0, err
	}
	defer h.Close()

	cols := resolvePaperColumns(h.pf)
	if cols.id < 0 {
		return 0, fmt.Errorf("id column not found in parquet schema")
	}

	read := 0
	rowNum := 0 // position within the shard, skipped rows included

	for _, rg := range h.pf.RowGroups() {
		rgRows := int(rg.NumRows())
		if rowNum+rgRows <= skipRows {
			rowNum += rgRows
			continue
		}

		n, done, err := r.readRowGroup(rg, cols, fileIndex, skipRows, maxRows, &rowNum, &read, cb)
		if err != nil {
			return read, err
		}
		read += n
		if done {
			break
		}
	}

	return read, nil
}

func (r *parquetReader) readRowGroup(
	rg parquet.RowGroup,
	cols paperColumns,
	fileIndex, skipRows, maxRows int,
	rowNum, read *int,
	cb readPapersCallback,
) (processed int, done bool, err error) {
	rows := parquet.NewRowGroupReader(rg)
	buf := make([]parquet.Row, 1000)
	n := 0

	for {
		cnt, readErr := rows.ReadRows(buf)
		for i := 0; i < cnt; i++ {
			if *rowNum < skipRows {
				*rowNum++
				continue
			}

			row := rowToArxiv(buf[i], cols)

			if !cb(&row, fileIndex, *rowNum) {
				return n, true, nil
			}
			*rowNum++
			n++

			if maxRows > 0 && *read+n >= maxRows {
				return n, true, nil
			}
		}

		if readErr != nil {
			if errors.Is(readErr, io.EOF) {
				break
			}
			return n, false, fmt.Errorf("read rows: %w", readErr)
		}
	}

	return n, false, nil
}

// rowToArxiv extracts an arxivRow from a generic parquet row by column
// index.
func rowToArxiv(row parquet.Row, cols paperColumns) arxivRow {
	var p arxivRow

	for _, v := range row {
		if v.IsNull() {
			continue
		}
		switch v.Column() {
		case cols.id:
			p.ID = v.String()
		case cols.title:
			p.Title = v.String()
		case cols.abstract:
			p.Abstract = v.String()
		case cols.authors:
			p.Authors = v.String()
		case cols.categories:
			p.Categories = v.String()
		case cols.updateDate:
			p.UpdateDate = dateString(v)
		}
	}

	return p
}

// dateString renders a date column that may be stored as a string, a
// date32 (days since epoch), or a timestamp.
func dateString(v parquet.Value) string {
	switch v.Kind() {
	case parquet.ByteArray, parquet.FixedLenByteArray:
		return v.String()
	case parquet.Int32:
		return time.Unix(int64(v.Int32())*86400, 0).UTC().Format("2006-01-02")
	case parquet.Int64:
		return time.UnixMilli(v.Int64()).UTC().Format("2006-01-02")
	default:
		return ""
	}
}

// parquetHandle wraps parquet.File plus the underlying os.File for cleanup.
type parquetHandle struct {
	pf   *parquet.File
	file *os.File
}

func (h *parquetHandle) Close() {
	_ = h.file.Close()
}

func openParquet(path string) (*parquetHandle, error) {
	cleanPath := filepath.Clean(path)
	f, err := os.Open(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}

	stat, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("stat: %w", err)
	}

	pf, err := parquet.OpenFile(f, stat.Size())
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("open parquet: %w", err)
	}
	return &parquetHandle{pf: pf, file: f}, nil
}
