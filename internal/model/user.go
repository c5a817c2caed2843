// Package model はドメインモデルを定義する。
package model

import "time"

// User はアカデミーポータルの利用ユーザーを表す。
// レコードの作成は本リポジトリの管轄外で行われ、ログイン時の照合と
// プロフィール取得で読み取られるのみ。削除は行わない。
type User struct {
	ID           int64
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// FullName は表示用の氏名を返す。
func (u *User) FullName() string {
	if u.FirstName == "" {
		return u.LastName
	}
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}
