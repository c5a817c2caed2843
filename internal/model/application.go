package model

import "time"

// ApplicationKind は応募の種別を表す。
type ApplicationKind string

const (
	// ApplicationKindInternship はインターンシップ応募を示す。
	ApplicationKindInternship ApplicationKind = "internship"
	// ApplicationKindPitchDeck はピッチデッキ応募を示す。
	ApplicationKindPitchDeck ApplicationKind = "pitch_deck"
)

// Application はインターンシップ/ピッチデッキの応募を表す。
// 公開フォームからの受付のみで、審査ワークフローは持たない。
type Application struct {
	ID        string
	Kind      ApplicationKind
	Name      string
	Email     string
	Phone     string
	Message   string
	FileKey   string // 添付（履歴書/デッキ）のオブジェクトキー。任意。
	Status    string // "received"
	CreatedAt time.Time
}

// ApplicationStatusReceived は受付済みステータス。
const ApplicationStatusReceived = "received"
