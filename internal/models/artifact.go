package models

import (
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
)

// ArtifactKind classifies how an artifact is treated during export.
type ArtifactKind string

const (
	KindText             ArtifactKind = "text"
	KindRichText         ArtifactKind = "richtext"
	KindImage            ArtifactKind = "image"
	KindEmbeddedDocument ArtifactKind = "document"
	KindBinary           ArtifactKind = "binary"
)

// Artifact is one stored item belonging to a project. Text kinds carry their
// content inline; image and document kinds carry a readable file path
// instead. The pipeline only reads an artifact for the duration of one
// export.
type Artifact struct {
	ID           string
	Filename     string
	Kind         ArtifactKind
	Content      string
	Path         string
	Normalized   string
	LastModified time.Time
}

var unsafeFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9_.-]`)

// SafeFilename reduces a filename to the filesystem-safe character set used
// for workspace side files.
func SafeFilename(name string) string {
	return unsafeFilenameChars.ReplaceAllString(name, "_")
}

// DetectKind classifies raw artifact bytes, preferring content sniffing over
// the filename extension.
func DetectKind(filename string, raw []byte) ArtifactKind {
	if strings.HasPrefix(strings.TrimSpace(string(raw)), `{\rtf`) {
		return KindRichText
	}

	if len(raw) > 0 {
		mtype := mimetype.Detect(raw)
		switch {
		case mtype.Is("application/pdf"):
			return KindEmbeddedDocument
		case strings.HasPrefix(mtype.String(), "image/"):
			return KindImage
		case strings.HasPrefix(mtype.String(), "text/"):
			return KindText
		}
	}

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".txt", ".md", ".tex", ".csv", ".log":
		return KindText
	case ".rtf":
		return KindRichText
	case ".png", ".jpg", ".jpeg", ".gif", ".bmp":
		return KindImage
	case ".pdf":
		return KindEmbeddedDocument
	}
	return KindBinary
}
