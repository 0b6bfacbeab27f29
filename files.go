package main

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// EnsureDir creates the directory and any missing parents.
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return fmt.Errorf("%w: couldn't create directory(name=%s)", err, dir)
	}
	return nil
}

// FileExists returns whether the file exists.
func FileExists(filename string) bool {
	if _, err := os.Stat(filename); err != nil {
		return false
	}

	return true
}

// WriteFileAtomic writes b to path through a uniquely named temporary file
// in the same directory, renamed onto path once fully written. A failed
// write never leaves a partial file under the final name.
func WriteFileAtomic(path string, b []byte) error {
	tmp := filepath.Join(filepath.Dir(path), "."+uuid.NewString()+".tmp")

	if err := writeFile(tmp, b); err != nil {
		os.Remove(tmp)
		return err
	}

	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return err
	}

	log.Debug().Int("written_bytes", len(b)).Str("path", path).Msg("wrote to disk")

	return nil
}

func writeFile(path string, b []byte) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	fw := bufio.NewWriter(file)

	if _, err := io.Copy(fw, bytes.NewBuffer(b)); err != nil {
		return err
	}

	return fw.Flush()
}
