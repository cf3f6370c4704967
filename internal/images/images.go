// Package images picks featured images for articles from a local
// folder. Images are matched to a category by filename, so a folder
// with "politics-capitol.jpg" and "business-dispensary.png" serves the
// politics and business categories respectively.
package images

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
)

var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}

// Uploader sends an image file to the CMS media library and returns its
// media ID. *wordpress.Client satisfies this.
type Uploader interface {
	UploadMedia(ctx context.Context, path, title string) (int64, error)
}

// Picker selects images from a directory.
type Picker struct {
	dir string
	rng *rand.Rand
}

func New(dir string, rng *rand.Rand) *Picker {
	return &Picker{dir: dir, rng: rng}
}

// Pick returns the path of a random image whose filename mentions the
// category. When no filename matches, any image will do. An empty
// string means the folder has no usable images.
func (p *Picker) Pick(category string) string {
	entries, err := os.ReadDir(p.dir)
	if err != nil {
		log.Printf("images: reading %s: %v", p.dir, err)
		return ""
	}

	var all, matching []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !imageExtensions[strings.ToLower(filepath.Ext(name))] {
			continue
		}
		all = append(all, name)
		if strings.Contains(strings.ToLower(name), strings.ToLower(category)) {
			matching = append(matching, name)
		}
	}
	if len(all) == 0 {
		return ""
	}
	if len(matching) == 0 {
		matching = all
	}
	return filepath.Join(p.dir, matching[p.rng.Intn(len(matching))])
}

// FeaturedImage picks and uploads an image for an article, returning
// the media ID. A missing image or failed upload returns 0; posts
// publish without a featured image rather than not at all.
func (p *Picker) FeaturedImage(ctx context.Context, uploader Uploader, category, articleTitle string) int64 {
	path := p.Pick(category)
	if path == "" {
		log.Printf("images: no image available for category %q", category)
		return 0
	}

	if len(articleTitle) > 50 {
		articleTitle = articleTitle[:50]
	}
	title := fmt.Sprintf("%s Cannabis News - %s", capitalize(category), articleTitle)

	id, err := uploader.UploadMedia(ctx, path, title)
	if err != nil {
		log.Printf("images: uploading %s: %v", path, err)
		return 0
	}
	return id
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
