package mcp

import (
	"fmt"
	"regexp"
	"strings"
)

// dbNameRe は connectionString 内の dbname=<識別子> フラグメントにマッチする
var dbNameRe = regexp.MustCompile(`dbname=([\w\-]+)`)

// createDBRe は SQL 文中の CREATE DATABASE <識別子> にマッチする（大文字小文字を区別しない）
var createDBRe = regexp.MustCompile(`(?i)create database\s+([\w\-]+)`)

// connStringScheme は完全な接続 URI の判定に使うプレフィックス
const connStringScheme = "postgresql://"

// ConnSettings は接続文字列テンプレートの固定部分を保持する。
// DefaultDB はヒントが何も得られなかった場合のフォールバック先データベース名。
type ConnSettings struct {
	User      string
	Password  string
	Host      string
	Port      string
	DefaultDB string
}

// Resolve は呼び出し引数から実効データベース名を導出し、完全な接続文字列を返す。
//
// 優先順位（高い順）:
//  1. arguments.sql に CREATE DATABASE <name> が含まれる場合はその名前
//     （作成直後のデータベースが呼び出しの対象になるため）
//  2. arguments.connectionString に dbname=<name> フラグメントが含まれる場合はその名前
//  3. arguments.connectionString が非空かつ完全な URI でない場合はトリム後の値そのもの
//  4. それ以外は DefaultDB
//
// LLM が生成した接続文字列をそのまま信用することはなく、あくまでデータベース名の
// ヒントとしてのみ扱う。不正な形式のヒントでも呼び出しを失敗させず、必ずデフォルトへ
// フォールバックする。純粋関数であり副作用はない。
func (s ConnSettings) Resolve(args map[string]any) string {
	dbname := s.DefaultDB

	if cs, ok := args["connectionString"].(string); ok {
		if m := dbNameRe.FindStringSubmatch(cs); m != nil {
			dbname = m[1]
		} else if trimmed := strings.TrimSpace(cs); trimmed != "" && !strings.HasPrefix(trimmed, connStringScheme) {
			// 裸のデータベース名がそのまま渡されてくるケース
			dbname = trimmed
		}
	}

	// CREATE DATABASE は connectionString より優先する
	if sql, ok := args["sql"].(string); ok && strings.Contains(strings.ToLower(sql), "create database") {
		if m := createDBRe.FindStringSubmatch(sql); m != nil {
			dbname = m[1]
		}
	}

	return fmt.Sprintf("%s%s:%s@%s:%s/%s", connStringScheme, s.User, s.Password, s.Host, s.Port, dbname)
}
