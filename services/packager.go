package services

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"sareeapi/models"
	"sareeapi/pkg/logger"
)

var unsafeFolderRule = regexp.MustCompile(`(?i)[^a-z0-9\-_]`)

// SafeFolderName replaces every character outside [a-z0-9-_] with an underscore.
func SafeFolderName(name string) string {
	return unsafeFolderRule.ReplaceAllString(name, "_")
}

func ArchiveName(now time.Time) string {
	return "saree-ai-export-" + now.Format("2006-01-02") + ".zip"
}

// Archive is a built export ready to download or upload.
type Archive struct {
	Name    string
	Data    []byte
	Folders []ArchiveFolder
}

type ArchiveFolder struct {
	ProductID string   `json:"product_id"`
	Name      string   `json:"name"`
	Files     []string `json:"files"`
}

type productDocument struct {
	ID       string                 `json:"id"`
	Metadata models.ProductDetails  `json:"metadata"`
	Analysis *models.AnalysisResult `json:"analysis,omitempty"`
}

type folderWriter struct {
	zw      *zip.Writer
	folder  ArchiveFolder
	counter int
}

func (f *folderWriter) write(name string, data []byte) error {
	w, err := f.zw.Create(f.folder.Name + "/" + name)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return err
	}
	f.folder.Files = append(f.folder.Files, name)
	return nil
}

func (f *folderWriter) writeImage(data []byte) error {
	f.counter++
	return f.write(fmt.Sprintf("%s_IMG%02d.png", f.folder.Name, f.counter), data)
}

// BuildArchive packs every product into its own folder: original, try-on, selected shots, details document.
func BuildArchive(products []models.Product, now time.Time) (*Archive, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	archive := &Archive{Name: ArchiveName(now)}
	taken := make(map[string]bool, len(products))

	for _, product := range products {
		name := product.SKU()
		if name == "" {
			name = product.ID
		}
		fw := &folderWriter{zw: zw, folder: ArchiveFolder{ProductID: product.ID, Name: uniqueFolderName(taken, SafeFolderName(name))}}

		original := product.Source.Data
		if normalized, err := NormalizeToPNG(product.Source); err == nil {
			original = normalized.Data
		} else {
			logger.Warn("Falling back to original bytes", logger.Fields{"product_id": product.ID, "error": err.Error()})
		}
		if err := fw.writeImage(original); err != nil {
			return nil, fmt.Errorf("failed to write original image of %s: %w", product.ID, err)
		}

		if tryOn, ok := product.TryOn(); ok {
			if err := fw.writeImage(tryOn.Data); err != nil {
				return nil, fmt.Errorf("failed to write try-on image of %s: %w", product.ID, err)
			}
		}

		for _, shot := range product.Shots {
			if shot.Type == models.ShotSource || !shot.Selected {
				continue
			}
			img, ok := shot.Image()
			if !ok || img.Empty() {
				continue
			}
			if err := fw.writeImage(img.Data); err != nil {
				return nil, fmt.Errorf("failed to write shot %s of %s: %w", shot.ID, product.ID, err)
			}
		}

		doc, err := json.MarshalIndent(productDocument{
			ID:       product.ID,
			Metadata: product.Details,
			Analysis: product.Analysis,
		}, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to encode details of %s: %w", product.ID, err)
		}
		if err := fw.write(fw.folder.Name+"_Details.json", doc); err != nil {
			return nil, fmt.Errorf("failed to write details of %s: %w", product.ID, err)
		}
		archive.Folders = append(archive.Folders, fw.folder)
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize archive: %w", err)
	}
	archive.Data = buf.Bytes()
	return archive, nil
}

// uniqueFolderName suffixes a repeated name with _2, _3, ... so folders never share entries.
func uniqueFolderName(taken map[string]bool, base string) string {
	name := base
	for i := 2; taken[name]; i++ {
		name = fmt.Sprintf("%s_%d", base, i)
	}
	taken[name] = true
	return name
}

func (a *Archive) FolderNames() []string {
	names := make([]string, 0, len(a.Folders))
	for _, f := range a.Folders {
		names = append(names, f.Name)
	}
	return names
}

func (a *Archive) String() string {
	return fmt.Sprintf("%s (%d folders: %s)", a.Name, len(a.Folders), strings.Join(a.FolderNames(), ", "))
}
