// Package textsplit 基于 langchaingo 的递归字符切分器，长度按 rune 计算。
package textsplit

import (
	"strings"
	"unicode/utf8"

	"github.com/tmc/langchaingo/textsplitter"
)

const (
	DefaultChunkSize    = 10000
	DefaultChunkOverlap = 1000
)

// DefaultSeparators 由粗到细依次尝试
var DefaultSeparators = []string{"\n\n", "\n", " ", ""}

// Splitter 包装 textsplitter.RecursiveCharacter
type Splitter struct {
	chunkSize int
	overlap   int
	inner     textsplitter.RecursiveCharacter
}

// New 创建切分器。overlap 不小于 chunkSize 时会被压到 chunkSize/10
func New(chunkSize, overlap int) *Splitter {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= chunkSize {
		overlap = chunkSize / 10
	}
	return &Splitter{
		chunkSize: chunkSize,
		overlap:   overlap,
		inner: textsplitter.NewRecursiveCharacter(
			textsplitter.WithChunkSize(chunkSize),
			textsplitter.WithChunkOverlap(overlap),
			textsplitter.WithSeparators(DefaultSeparators),
			textsplitter.WithLenFunc(utf8.RuneCountInString),
		),
	}
}

// Default 10000 / 1000 的切分器
func Default() *Splitter {
	return New(DefaultChunkSize, DefaultChunkOverlap)
}

// Split 切分文本，空白文本和空白块都会被丢弃
func (s *Splitter) Split(text string) ([]string, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}
	chunks, err := s.inner.SplitText(text)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(chunks))
	for _, c := range chunks {
		if strings.TrimSpace(c) != "" {
			out = append(out, c)
		}
	}
	return out, nil
}
