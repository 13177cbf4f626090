// Package domain contains the core business types for hansei:
// reflection dates, note documents with generated blocks, OCR page
// assembly, and coaching replies. It has no dependencies on adapters.
package domain
