package file

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/kagami-labs/hansei-cli/internal/core/ports/driven"
)

// Ensure PromptStore implements the interface.
var _ driven.PromptStore = (*PromptStore)(nil)

// PromptStore loads prompt templates from user-editable files on disk,
// with fallback to embedded defaults.
//
// The store uses lazy initialisation - files are only created when
// first accessed, not in the constructor.
type PromptStore struct {
	mu        sync.RWMutex
	promptDir string
	cache     map[string]string
	initOnce  sync.Once
	initErr   error
}

// defaultPrompts contains the embedded default templates. These are
// used when user files don't exist and as the initial content for new
// files. Placeholders are fmt verbs: the daily template takes the
// recent history then the reflection text; the weekly template takes
// the ISO week then the collected excerpts.
var defaultPrompts = map[string]string{
	driven.PromptDailyCoaching: `あなたは行動レベルに落とし込むコーチです。
以下は、ある1日の手書き振り返りメモをOCRで読み取ったものです。

- 「今日のスキャン」（その日の出来事・事実）
- 「感情と気づき」
- 「感謝と自己肯定」
- 「明日の一歩」

これらを読んで、次の形式でMarkdownを出力してください。

1. その日の反省から読み取れる「改善ポイント」を1〜2個だけ、短く箇条書き。
2. 明日実行できる具体的な行動を3つまで。
   - それぞれ5〜15分で終わる小さな行動にすること。
   - チェックボックス付きのMarkdownリスト形式にすること。
3. 自分を責める表現は避け、「こうするともっと良くなりそう」というトーンにすること。

出力フォーマット:

## 改善ポイント（AIコーチ）
- ...

## 明日のアクション（AIコーチ）
- [ ] ...
- [ ] ...
- [ ] ...

上記フォーマット以外の文章は一切書かないでください。

参考として、直近のノートの抜粋です：

%s

以下が今日のメモです：

%s`,

	driven.PromptWeeklyReview: `あなたは1週間分の振り返りを手伝うコーチです。
以下は、%s の1週間分のデイリーノートから抜き出したテキストです。

- 各日の「今日の振り返り（手書き）」
- 各日の「明日のアクション（AIコーチ）」

これらを読んで、次の形式でMarkdownを出力してください。

1. 今週のハイライト（印象的な出来事や前進したこと）を3〜5個。
2. 繰り返し出てきたパターン（感情・行動・課題など）を2〜4個。
3. 来週のフォーカス（テーマ）を1つだけ決めてください。
4. そのテーマを進めるための具体的な行動を3つまで、チェックボックス付きMarkdownリストで提案してください。
   - いずれも30分以内でできる行動レベルにしてください。

出力フォーマット:

## 今週のハイライト
- ...

## 繰り返し出てきたパターン
- ...

## 来週のフォーカス
- テーマ: ...

## 来週の行動（AIコーチ）
- [ ] ...
- [ ] ...
- [ ] ...

上記フォーマット以外の文章は一切書かないでください。

以下が1週間分のテキストです：

%s`,

	driven.PromptNoteSummary: `あなたは優秀なライター兼情報整理のアシスタントです。
渡されたノートのコンテンツを分析し、トピックごとに要約して、指定されたJSON形式で出力してください。

## 入力情報
- source_type: %s
- source_path: %s
- date: %s

## コンテンツ
%s

## 出力要件
次のキーを持つJSONオブジェクトのみを出力してください。
- source_type / source_path / date: 入力情報の値をそのまま写す
- topics: オブジェクトの配列。各要素は title / summary / tags を持つ

注意事項:
- tagsは、コンテンツの内容に合わせて適切なものを付与してください。#topic/仕事, #topic/アイデア, #topic/振り返り など。
- topicsは複数あっても構いません。話題が変わるごとに分割してください。
- タイトルはファイル名に使用するため、簡潔にしてください。
- summaryは日本語で2〜4文程度で要約してください。
- JSON以外の文章は一切書かないでください。`,
}

// NewPromptStore creates a file-based prompt store.
// If promptDir is empty, defaults to ~/.hansei/prompts/.
//
// The constructor does not perform any I/O - directory creation and
// file writes happen lazily on first Load() call.
func NewPromptStore(promptDir string) (*PromptStore, error) {
	if promptDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home directory: %w", err)
		}
		promptDir = filepath.Join(home, ".hansei", "prompts")
	}

	return &PromptStore{
		promptDir: promptDir,
		cache:     make(map[string]string),
	}, nil
}

// Load returns the prompt template for the given name.
// On first call, initialises the prompt directory and creates default
// files. Falls back to the embedded default if the file doesn't exist.
func (s *PromptStore) Load(name string) (string, error) {
	s.initOnce.Do(s.initialise)
	if s.initErr != nil {
		// Fall back to embedded defaults if init failed
		if prompt, ok := defaultPrompts[name]; ok {
			return prompt, nil
		}
		return "", fmt.Errorf("prompt store init failed: %w", s.initErr)
	}

	s.mu.RLock()
	if prompt, ok := s.cache[name]; ok {
		s.mu.RUnlock()
		return prompt, nil
	}
	s.mu.RUnlock()

	// Load from file (no lock held during I/O)
	prompt, err := s.loadFromFile(name)
	if err != nil {
		if defaultPrompt, ok := defaultPrompts[name]; ok {
			return defaultPrompt, nil
		}
		return "", fmt.Errorf("load prompt %q: %w", name, err)
	}

	// Double-check pattern to avoid overwriting concurrent loads
	s.mu.Lock()
	if _, ok := s.cache[name]; !ok {
		s.cache[name] = prompt
	} else {
		prompt = s.cache[name]
	}
	s.mu.Unlock()

	return prompt, nil
}

// Reload clears the prompt cache, forcing fresh loads from disk.
func (s *PromptStore) Reload() {
	s.mu.Lock()
	s.cache = make(map[string]string)
	s.mu.Unlock()
}

// Dir returns the prompt directory path.
func (s *PromptStore) Dir() string {
	return s.promptDir
}

// initialise creates the prompt directory and default files.
// Called once via sync.Once on first Load().
func (s *PromptStore) initialise() {
	if err := os.MkdirAll(s.promptDir, 0700); err != nil {
		s.initErr = fmt.Errorf("create prompt directory: %w", err)
		return
	}

	// Create default prompt files (only if they don't exist)
	for name, content := range defaultPrompts {
		path := filepath.Join(s.promptDir, name+".txt")
		if _, err := os.Stat(path); os.IsNotExist(err) {
			if err := os.WriteFile(path, []byte(content), 0600); err != nil {
				s.initErr = fmt.Errorf("create default prompt %q: %w", name, err)
				return
			}
		}
	}
}

// loadFromFile reads a prompt from disk.
func (s *PromptStore) loadFromFile(name string) (string, error) {
	path := filepath.Join(s.promptDir, name+".txt")
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}
