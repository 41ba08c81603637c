package catalog

import "strings"

// toolPrefix は論理関数名からワイヤツール名を導出する固定プレフィックス
const toolPrefix = "pg_"

// Binding は論理関数名に対応する MCP ワイヤツール名と静的デフォルト引数
type Binding struct {
	// Tool は tools/call に渡すワイヤツール名（例: pg_manage_users）
	Tool string
	// StaticArgs はモデルの引数より先に適用されるデフォルト引数
	StaticArgs map[string]any
}

// functionToTool は関数名 → MCP ツール名のマッピングテーブル
var functionToTool = map[string]Binding{
	"analyze_database":       {Tool: "pg_analyze_database"},
	"manage_functions":       {Tool: "pg_manage_functions"},
	"manage_rls":             {Tool: "pg_manage_rls"},
	"debug_database":         {Tool: "pg_debug_database"},
	"manage_schema":          {Tool: "pg_manage_schema"},
	"export_table_data":      {Tool: "pg_export_table_data"},
	"import_table_data":      {Tool: "pg_import_table_data"},
	"copy_between_databases": {Tool: "pg_copy_between_databases"},
	"monitor_database":       {Tool: "pg_monitor_database"},
	"get_setup_instructions": {Tool: "pg_get_setup_instructions"},
	"manage_triggers":        {Tool: "pg_manage_triggers"},
	"manage_indexes":         {Tool: "pg_manage_indexes"},
	"manage_query":           {Tool: "pg_manage_query"},
	"manage_users":           {Tool: "pg_manage_users"},
	"manage_constraints":     {Tool: "pg_manage_constraints"},
	"execute_query":          {Tool: "pg_execute_query"},
	"execute_mutation":       {Tool: "pg_execute_mutation"},
	"execute_sql":            {Tool: "pg_execute_sql"},
	"manage_comments":        {Tool: "pg_manage_comments"},
}

// Resolve は論理関数名からバインディングを引く
func Resolve(function string) (Binding, bool) {
	b, ok := functionToTool[function]
	return b, ok
}

// BuildArgs はツール呼び出し引数を組み立てる。
// バインディングの静的引数を先にコピーし、その上にモデルの引数をマージし、
// 最後にパッチルールを適用する。入力マップは変更しない。
func BuildArgs(function string, modelArgs map[string]any) map[string]any {
	args := map[string]any{}
	if b, ok := functionToTool[function]; ok {
		for k, v := range b.StaticArgs {
			args[k] = v
		}
	}
	for k, v := range modelArgs {
		args[k] = v
	}
	return patchArgs(function, args)
}

// patchArgs は特定の関数に対する引数パッチを適用する。
// CREATE DATABASE はトランザクション内で実行できないため、
// execute_sql でその SQL が渡された場合は transactional を無効化する。
func patchArgs(function string, args map[string]any) map[string]any {
	if function == "execute_sql" {
		if sql, ok := args["sql"].(string); ok && strings.Contains(strings.ToLower(sql), "create database") {
			args["transactional"] = false
		}
	}
	return args
}
