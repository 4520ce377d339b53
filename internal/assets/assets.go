// Package assets embeds the built-in experiment datasets.
package assets

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
)

//go:embed datasets/*
var Datasets embed.FS

const datasetDir = "datasets"

// Names returns the IDs of the embedded datasets, sorted. The ID is the file
// name without extension.
func Names() ([]string, error) {
	entries, err := fs.ReadDir(Datasets, datasetDir)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), path.Ext(e.Name())))
	}
	sort.Strings(names)
	return names, nil
}

// File returns the embedded file name for a dataset ID.
func File(id string) (string, error) {
	entries, err := fs.ReadDir(Datasets, datasetDir)
	if err != nil {
		return "", err
	}
	for _, e := range entries {
		if strings.TrimSuffix(e.Name(), path.Ext(e.Name())) == id {
			return e.Name(), nil
		}
	}
	return "", fmt.Errorf("unknown built-in dataset %q", id)
}

// Read returns the raw bytes of a built-in dataset.
func Read(id string) ([]byte, error) {
	name, err := File(id)
	if err != nil {
		return nil, err
	}
	return fs.ReadFile(Datasets, datasetDir+"/"+name)
}
