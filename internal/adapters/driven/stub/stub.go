// Package stub provides deterministic offline implementations of the
// OCR and coaching ports, for dry runs and end-to-end tests without
// external tools or API keys.
package stub

import (
	"context"
	"strings"

	"github.com/kagami-labs/hansei-cli/internal/core/domain"
	"github.com/kagami-labs/hansei-cli/internal/core/ports/driven"
)

// Ensure the stubs implement their interfaces.
var (
	_ driven.Rasterizer   = (*Rasterizer)(nil)
	_ driven.Recognizer   = (*Recognizer)(nil)
	_ driven.CoachService = (*Coach)(nil)
)

// stubPageText is the canned recognition result, shaped like a typical
// handwritten reflection sheet.
const stubPageText = `#1 今日のスキャン
朝起きてご飯を食べた。
仕事が忙しかった。

#2 感情と気づき
少し疲れたけれど充実していた。

#3 感謝と自己肯定
同僚に助けてもらって感謝。
よく頑張った。

#4 明日の一歩
早く寝る。`

// stubDailyReply is the canned daily coaching response.
const stubDailyReply = `## 改善ポイント（AIコーチ）
- もっと早く寝るべきでした。

## 明日のアクション（AIコーチ）
- [ ] 朝7時に起きる
- [ ] 水を一杯飲む
- [ ] ストレッチする`

// stubWeeklyReply is the canned weekly review response.
const stubWeeklyReply = `## 今週のハイライト
- プロジェクトA完了
- 家族で公園に行った
- 本を1冊読了

## 繰り返し出てきたパターン
- 夜更かし気味
- 運動不足

## 来週のフォーカス
- テーマ: 早寝早起き

## 来週の行動（AIコーチ）
- [ ] 22時に布団に入る
- [ ] スマホをリビングに置く
- [ ] 朝散歩する`

// stubSummaryReply is the canned note-summary response.
const stubSummaryReply = `{
  "source_type": "voicememo",
  "source_path": "00_inbox/Voicememo/2026-02-10.md",
  "date": "2026-02-10",
  "topics": [
    {
      "title": "仕事の優先順位",
      "summary": "タスクが多すぎて集中できていない。朝一番に3つだけ選ぶ運用を試す。",
      "tags": ["#topic/仕事"]
    }
  ]
}`

// Rasterizer returns a single fake page without reading the PDF bytes.
type Rasterizer struct{}

// Rasterize returns one placeholder page.
func (Rasterizer) Rasterize(_ context.Context, _ string, _ int) ([]domain.RawPage, error) {
	return []domain.RawPage{{Index: 1, PNG: []byte("stub-png")}}, nil
}

// Recognizer returns the canned reflection text for every page.
type Recognizer struct{}

// Recognize returns the canned reflection text.
func (Recognizer) Recognize(_ context.Context, _ domain.RawPage, _ string) (string, error) {
	return stubPageText, nil
}

// Coach returns canned coaching replies keyed on the prompt shape.
type Coach struct{}

// NewCoach creates the stub coach.
func NewCoach() *Coach {
	return &Coach{}
}

// Generate returns the canned reply matching the prompt shape: weekly
// review, note summary, or daily coaching.
func (*Coach) Generate(_ context.Context, prompt string, _ driven.GenerateOptions) (string, error) {
	switch {
	case strings.Contains(prompt, "1週間分"):
		return stubWeeklyReply, nil
	case strings.Contains(prompt, "JSON形式"):
		return stubSummaryReply, nil
	default:
		return stubDailyReply, nil
	}
}

// ModelName returns the stub model identifier.
func (*Coach) ModelName() string {
	return "stub"
}

// Ping always succeeds.
func (*Coach) Ping(_ context.Context) error {
	return nil
}

// Close releases nothing.
func (*Coach) Close() error {
	return nil
}
