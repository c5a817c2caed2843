package app

// Command はgakuenバイナリの起動モードを表す。
type Command string

const (
	// CommandServe はポータルAPIサーバーとして起動することを示す。
	CommandServe Command = "serve"
	// CommandWorker は未確定アップロードの掃除を行うワーカーとして起動することを示す。
	CommandWorker Command = "worker"
	// CommandMigrate はデータベーススキーマのマイグレーションを実行することを示す。
	CommandMigrate Command = "migrate"
	// CommandHealthcheck は稼働中のAPIサーバーに対するヘルスチェックを実行することを示す。
	// シェルを持たないdistrolessコンテナのDocker healthcheck用。
	CommandHealthcheck Command = "healthcheck"
)

// ParseCommand はコマンドライン引数の先頭からサブコマンドを解析する。
// 引数なし・未知のサブコマンドはいずれもCommandServeとして扱う。
func ParseCommand(args []string) Command {
	if len(args) == 0 {
		return CommandServe
	}

	switch args[0] {
	case "serve":
		return CommandServe
	case "worker":
		return CommandWorker
	case "migrate":
		return CommandMigrate
	case "healthcheck":
		return CommandHealthcheck
	default:
		return CommandServe
	}
}
