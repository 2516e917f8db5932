// Package extract turns a content request (inline text, local file or URL)
// into plain text ready for summarization.
package extract

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"vaachak/pkg/llm"
	"vaachak/pkg/llm/prompts"
	"vaachak/pkg/model"
	"vaachak/pkg/request"
)

// ErrMissingInput indicates the request carried no text, file or URL.
var ErrMissingInput = errors.New("no text, file or url provided")

// SourceError wraps a failure while reading one concrete source.
type SourceError struct {
	Source model.SourceKind
	Err    error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("failed to extract from %s: %v", e.Source, e.Err)
}

func (e *SourceError) Unwrap() error { return e.Err }

// Result is the outcome of extraction. Summarized is true when the source
// was condensed in one model call (images), so the pipeline must not
// summarize it again.
type Result struct {
	Text       string
	Summarized bool
}

// Extractor routes a request to the right reader for its source.
type Extractor struct {
	rc      *request.Client
	vision  llm.Provider
	prompts *prompts.Manager
}

// New creates an Extractor. vision may be nil if image sources are not needed.
func New(rc *request.Client, vision llm.Provider, pm *prompts.Manager) *Extractor {
	return &Extractor{rc: rc, vision: vision, prompts: pm}
}

// Extract resolves the request's content to text. Inline text wins over a
// file, which wins over a URL.
func (e *Extractor) Extract(ctx context.Context, req model.ContentRequest) (Result, error) {
	switch {
	case strings.TrimSpace(req.Text) != "":
		return Result{Text: req.Text}, nil
	case req.FilePath != "":
		return e.extractFile(ctx, req)
	case req.URL != "":
		return e.extractURL(ctx, req)
	default:
		return Result{}, ErrMissingInput
	}
}

func (e *Extractor) extractFile(ctx context.Context, req model.ContentRequest) (Result, error) {
	kind := resolveKind(req.DeclaredType, req.FilePath)
	switch kind {
	case model.ContentPDF:
		text, err := FromPDF(req.FilePath)
		if err != nil {
			return Result{}, &SourceError{Source: model.SourceFile, Err: err}
		}
		return Result{Text: text}, nil
	case model.ContentImage:
		text, err := e.summarizeImage(ctx, req)
		if err != nil {
			return Result{}, &SourceError{Source: model.SourceFile, Err: err}
		}
		return Result{Text: text, Summarized: true}, nil
	default:
		// Anything else is treated as text; the reader tolerates any
		// byte sequence via the Latin-1 fallback.
		text, err := FromTextFile(req.FilePath)
		if err != nil {
			return Result{}, &SourceError{Source: model.SourceFile, Err: err}
		}
		return Result{Text: text}, nil
	}
}

// extractURL dispatches a URL by its declared type. Declared PDFs and
// images are fetched into a temporary file and go through the same readers
// as local files; everything else is scraped as an article.
func (e *Extractor) extractURL(ctx context.Context, req model.ContentRequest) (Result, error) {
	switch kindForDeclared(req.DeclaredType) {
	case model.ContentPDF:
		path, cleanup, err := e.fetchToTemp(ctx, req.URL, ".pdf")
		if err != nil {
			return Result{}, &SourceError{Source: model.SourceURL, Err: err}
		}
		defer cleanup()
		text, err := FromPDF(path)
		if err != nil {
			return Result{}, &SourceError{Source: model.SourceURL, Err: err}
		}
		return Result{Text: text}, nil
	case model.ContentImage:
		path, cleanup, err := e.fetchToTemp(ctx, req.URL, ".img")
		if err != nil {
			return Result{}, &SourceError{Source: model.SourceURL, Err: err}
		}
		defer cleanup()
		fileReq := req
		fileReq.FilePath = path
		text, err := e.summarizeImage(ctx, fileReq)
		if err != nil {
			return Result{}, &SourceError{Source: model.SourceURL, Err: err}
		}
		return Result{Text: text, Summarized: true}, nil
	default:
		text, err := e.FetchArticle(ctx, req.URL)
		if err != nil {
			return Result{}, &SourceError{Source: model.SourceURL, Err: err}
		}
		return Result{Text: text}, nil
	}
}

// fetchToTemp downloads a URL into a temporary file and returns its path
// with a cleanup func. Binary payloads never enter the response cache.
func (e *Extractor) fetchToTemp(ctx context.Context, u, ext string) (string, func(), error) {
	data, err := e.rc.Get(ctx, u, "")
	if err != nil {
		return "", nil, err
	}

	f, err := os.CreateTemp("", "vaachak-*"+ext)
	if err != nil {
		return "", nil, err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", nil, err
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", nil, err
	}
	return f.Name(), func() { os.Remove(f.Name()) }, nil
}

// summarizeImage reads the image text and summarizes it in one model call.
func (e *Extractor) summarizeImage(ctx context.Context, req model.ContentRequest) (string, error) {
	if e.vision == nil {
		return "", errors.New("no vision-capable model configured")
	}

	lang, err := model.LanguageByCode(req.Language)
	if err != nil {
		return "", err
	}

	system, err := e.prompts.Render("summarize_system.tmpl", nil)
	if err != nil {
		return "", err
	}
	prompt, err := e.prompts.Render("image_summary.tmpl", prompts.SummaryData{Language: lang.Name})
	if err != nil {
		return "", err
	}

	return e.vision.GenerateImageText(ctx, system, prompt, req.FilePath)
}

// kindForDeclared maps a declared file type onto a content category.
// Concrete image formats are accepted as aliases for "image".
func kindForDeclared(declared model.ContentKind) model.ContentKind {
	switch strings.ToLower(strings.TrimSpace(string(declared))) {
	case "pdf":
		return model.ContentPDF
	case "image", "jpg", "jpeg", "png", "gif":
		return model.ContentImage
	case "text", "txt", "md":
		return model.ContentText
	default:
		return model.ContentUnknown
	}
}

// resolveKind picks the content kind from the declared type, falling back
// to the filename extension.
func resolveKind(declared model.ContentKind, path string) model.ContentKind {
	if kind := kindForDeclared(declared); kind != model.ContentUnknown {
		return kind
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return model.ContentPDF
	case ".jpg", ".jpeg", ".png", ".gif":
		return model.ContentImage
	case ".txt", ".md", ".text":
		return model.ContentText
	default:
		return model.ContentUnknown
	}
}
