package catalog

import (
	"strings"
	"testing"
)

// 全スキーマにワイヤツールのバインディングが存在し、プレフィックス規約に従うこと
func TestSchemas_EveryFunctionHasBinding(t *testing.T) {
	for _, schema := range Schemas() {
		b, ok := Resolve(schema.Name)
		if !ok {
			t.Errorf("function %q has no tool binding", schema.Name)
			continue
		}
		if b.Tool != toolPrefix+schema.Name {
			t.Errorf("function %q maps to %q, want %q", schema.Name, b.Tool, toolPrefix+schema.Name)
		}
	}
}

func TestSchemas_ParametersWellFormed(t *testing.T) {
	for _, schema := range Schemas() {
		if schema.Description == "" {
			t.Errorf("function %q has empty description", schema.Name)
		}
		if schema.Parameters["type"] != "object" {
			t.Errorf("function %q parameters type = %v, want object", schema.Name, schema.Parameters["type"])
		}
		props, ok := schema.Parameters["properties"].(map[string]any)
		if !ok {
			t.Errorf("function %q has no properties map", schema.Name)
			continue
		}
		// required に列挙されたフィールドは properties に存在すること
		required, _ := schema.Parameters["required"].([]string)
		for _, name := range required {
			if _, ok := props[name]; !ok {
				t.Errorf("function %q requires %q but it is not a property", schema.Name, name)
			}
		}
	}
}

func TestResolve_UnknownFunction(t *testing.T) {
	if _, ok := Resolve("drop_all_tables"); ok {
		t.Error("Resolve returned a binding for an unknown function")
	}
}

func TestBuildArgs_MergesModelArgs(t *testing.T) {
	model := map[string]any{"operation": "list", "limit": 5}
	args := BuildArgs("manage_users", model)

	if args["operation"] != "list" || args["limit"] != 5 {
		t.Errorf("model args not merged: %v", args)
	}
	// 入力マップは変更されない
	if len(model) != 2 {
		t.Errorf("BuildArgs mutated model args: %v", model)
	}
}

func TestBuildArgs_CreateDatabaseDisablesTransaction(t *testing.T) {
	tests := []struct {
		name     string
		function string
		args     map[string]any
		want     any
	}{
		{
			name:     "execute_sql の CREATE DATABASE は transactional=false",
			function: "execute_sql",
			args:     map[string]any{"sql": "CREATE DATABASE demo;"},
			want:     false,
		},
		{
			name:     "大文字小文字は区別しない",
			function: "execute_sql",
			args:     map[string]any{"sql": "create DATABASE demo"},
			want:     false,
		},
		{
			name:     "通常の SQL はパッチされない",
			function: "execute_sql",
			args:     map[string]any{"sql": "SELECT 1"},
			want:     nil,
		},
		{
			name:     "他の関数はパッチ対象外",
			function: "execute_query",
			args:     map[string]any{"sql": "CREATE DATABASE demo"},
			want:     nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BuildArgs(tt.function, tt.args)
			if got["transactional"] != tt.want {
				t.Errorf("transactional = %v, want %v", got["transactional"], tt.want)
			}
		})
	}
}

// スキーマの説明にプロンプトとして意味のあるヒントが残っていること
// （リグレッション防止: execute_query の show databases 誘導）
func TestSchemas_ExecuteQueryGuidance(t *testing.T) {
	for _, schema := range Schemas() {
		if schema.Name != "execute_query" {
			continue
		}
		if !strings.Contains(schema.Description, "pg_database") {
			t.Error("execute_query description lost the list-databases guidance")
		}
		return
	}
	t.Fatal("execute_query schema not found")
}
