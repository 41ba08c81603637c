// Package catalog は LLM に提示する関数スキーマと、
// 論理関数名から MCP ワイヤツール名へのマッピングを提供する。
// 内容は静的なテーブルであり、実行時に変化しない。
package catalog

// FunctionSchema は OpenAI function calling に渡す1関数の定義
type FunctionSchema struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
}

// スキーマ定義用のショートハンド

func obj(properties map[string]any, required ...string) map[string]any {
	s := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if required == nil {
		required = []string{}
	}
	s["required"] = required
	return s
}

func str() map[string]any { return map[string]any{"type": "string"} }

func strDesc(desc string) map[string]any {
	return map[string]any{"type": "string", "description": desc}
}

func enum(values ...string) map[string]any {
	return map[string]any{"type": "string", "enum": values}
}

func boolean() map[string]any { return map[string]any{"type": "boolean"} }

func number() map[string]any { return map[string]any{"type": "number"} }

func integer() map[string]any { return map[string]any{"type": "integer"} }

func array(items map[string]any) map[string]any {
	return map[string]any{"type": "array", "items": items}
}

func strArray() map[string]any { return array(str()) }

func objArray() map[string]any { return array(map[string]any{"type": "object"}) }

// functionSchemas は全 MCP ツールに対応する関数スキーマ
var functionSchemas = []FunctionSchema{
	{
		Name:        "analyze_database",
		Description: "Analyze PostgreSQL database configuration and performance.",
		Parameters: obj(map[string]any{
			"analysisType":     enum("configuration", "performance", "security"),
			"connectionString": strDesc("PostgreSQL connection string (optional)"),
		}, "analysisType"),
	},
	{
		Name:        "manage_functions",
		Description: "Manage PostgreSQL functions (get, create, drop).",
		Parameters: obj(map[string]any{
			"operation":        enum("get", "create", "drop"),
			"functionName":     str(),
			"parameters":       str(),
			"returnType":       str(),
			"functionBody":     str(),
			"language":         enum("sql", "plpgsql", "plpython3u"),
			"volatility":       enum("VOLATILE", "STABLE", "IMMUTABLE"),
			"security":         enum("INVOKER", "DEFINER"),
			"replace":          boolean(),
			"ifExists":         boolean(),
			"cascade":          boolean(),
			"connectionString": str(),
		}, "operation"),
	},
	{
		Name:        "manage_rls",
		Description: "Manage PostgreSQL Row-Level Security policies.",
		Parameters: obj(map[string]any{
			"operation":        enum("enable", "disable", "create_policy", "edit_policy", "drop_policy", "get_policies"),
			"tableName":        str(),
			"policyName":       str(),
			"using":            str(),
			"check":            str(),
			"command":          enum("ALL", "SELECT", "INSERT", "UPDATE", "DELETE"),
			"role":             str(),
			"replace":          boolean(),
			"roles":            strArray(),
			"ifExists":         boolean(),
			"connectionString": str(),
		}, "operation"),
	},
	{
		Name:        "debug_database",
		Description: "Debug common PostgreSQL issues.",
		Parameters: obj(map[string]any{
			"issue":            enum("connection", "performance", "locks", "replication"),
			"logLevel":         enum("info", "debug", "trace"),
			"connectionString": str(),
		}, "issue"),
	},
	{
		Name: "manage_schema",
		Description: "Manage PostgreSQL schema (get info, create/alter tables, manage enums). " +
			"For create_table, you MUST provide both tableName and columns. " +
			`Example columns: [{"name": "id", "type": "serial", "nullable": false}, {"name": "name", "type": "text", "nullable": false}]. ` +
			"For alter_table, specify operations. For create_enum, provide enumName and values.",
		Parameters: obj(map[string]any{
			"operation":        enum("get_info", "create_table", "alter_table", "get_enums", "create_enum"),
			"tableName":        str(),
			"schema":           str(),
			"columns":          objArray(),
			"operations":       objArray(),
			"enumName":         str(),
			"values":           strArray(),
			"ifNotExists":      boolean(),
			"connectionString": str(),
		}, "operation"),
	},
	{
		Name:        "export_table_data",
		Description: "Export table data to JSON or CSV format.",
		Parameters: obj(map[string]any{
			"tableName":        str(),
			"outputPath":       str(),
			"where":            str(),
			"limit":            integer(),
			"format":           enum("json", "csv"),
			"connectionString": str(),
		}, "tableName", "outputPath"),
	},
	{
		Name:        "import_table_data",
		Description: "Import data from JSON or CSV file into a table.",
		Parameters: obj(map[string]any{
			"tableName":        str(),
			"inputPath":        str(),
			"truncateFirst":    boolean(),
			"format":           enum("json", "csv"),
			"delimiter":        str(),
			"connectionString": str(),
		}, "tableName", "inputPath"),
	},
	{
		Name:        "copy_between_databases",
		Description: "Copy data between two databases.",
		Parameters: obj(map[string]any{
			"sourceConnectionString": str(),
			"targetConnectionString": str(),
			"tableName":              str(),
			"where":                  str(),
			"truncateTarget":         boolean(),
		}, "sourceConnectionString", "targetConnectionString", "tableName"),
	},
	{
		Name:        "monitor_database",
		Description: "Get real-time monitoring information for a PostgreSQL database.",
		Parameters: obj(map[string]any{
			"includeTables":      boolean(),
			"includeQueries":     boolean(),
			"includeLocks":       boolean(),
			"includeReplication": boolean(),
			"alertThresholds":    map[string]any{"type": "object"},
			"connectionString":   str(),
		}),
	},
	{
		Name:        "get_setup_instructions",
		Description: "Get step-by-step PostgreSQL setup instructions.",
		Parameters: obj(map[string]any{
			"platform": enum("linux", "macos", "windows"),
			"version":  str(),
			"useCase":  enum("development", "production"),
		}, "platform"),
	},
	{
		Name:        "manage_triggers",
		Description: "Manage PostgreSQL triggers (get, create, drop, enable/disable).",
		Parameters: obj(map[string]any{
			"operation":        enum("get", "create", "drop", "set_state"),
			"tableName":        str(),
			"triggerName":      str(),
			"functionName":     str(),
			"timing":           enum("BEFORE", "AFTER", "INSTEAD OF"),
			"events":           array(enum("INSERT", "UPDATE", "DELETE", "TRUNCATE")),
			"forEach":          enum("ROW", "STATEMENT"),
			"when":             str(),
			"replace":          boolean(),
			"ifExists":         boolean(),
			"cascade":          boolean(),
			"enable":           boolean(),
			"connectionString": str(),
		}, "operation"),
	},
	{
		Name:        "manage_indexes",
		Description: "Manage PostgreSQL indexes (get, create, drop, reindex, analyze usage).",
		Parameters: obj(map[string]any{
			"operation":        enum("get", "create", "drop", "reindex", "analyze_usage"),
			"tableName":        str(),
			"indexName":        str(),
			"includeStats":     boolean(),
			"columns":          strArray(),
			"unique":           boolean(),
			"concurrent":       boolean(),
			"method":           enum("btree", "hash", "gist", "spgist", "gin", "brin"),
			"where":            str(),
			"ifNotExists":      boolean(),
			"ifExists":         boolean(),
			"cascade":          boolean(),
			"target":           str(),
			"type":             enum("index", "table", "schema", "database"),
			"minSizeBytes":     number(),
			"showUnused":       boolean(),
			"showDuplicates":   boolean(),
			"connectionString": str(),
		}, "operation"),
	},
	{
		Name:        "manage_query",
		Description: "Manage PostgreSQL query analysis and performance.",
		Parameters: obj(map[string]any{
			"operation":         enum("explain", "get_slow_queries", "get_stats", "reset_stats"),
			"query":             str(),
			"analyze":           boolean(),
			"buffers":           boolean(),
			"verbose":           boolean(),
			"costs":             boolean(),
			"format":            enum("text", "json", "xml", "yaml"),
			"limit":             integer(),
			"minDuration":       number(),
			"orderBy":           enum("mean_time", "total_time", "calls", "cache_hit_ratio"),
			"includeNormalized": boolean(),
			"minCalls":          number(),
			"queryPattern":      str(),
			"queryId":           str(),
			"connectionString":  str(),
		}, "operation"),
	},
	{
		Name:        "manage_users",
		Description: "Manage PostgreSQL users and permissions.",
		Parameters: obj(map[string]any{
			"operation":          enum("create", "drop", "alter", "grant", "revoke", "get_permissions", "list"),
			"username":           str(),
			"password":           str(),
			"superuser":          boolean(),
			"createdb":           boolean(),
			"createrole":         boolean(),
			"login":              boolean(),
			"replication":        boolean(),
			"connectionLimit":    number(),
			"validUntil":         str(),
			"inherit":            boolean(),
			"ifExists":           boolean(),
			"cascade":            boolean(),
			"permissions":        array(enum("SELECT", "INSERT", "UPDATE", "DELETE", "TRUNCATE", "REFERENCES", "TRIGGER", "ALL")),
			"target":             str(),
			"targetType":         enum("table", "schema", "database", "sequence", "function"),
			"withGrantOption":    boolean(),
			"schema":             str(),
			"includeSystemRoles": boolean(),
			"connectionString":   str(),
		}, "operation"),
	},
	{
		Name:        "manage_constraints",
		Description: "Manage PostgreSQL constraints (get, create foreign keys, drop foreign keys, create/drop constraints).",
		Parameters: obj(map[string]any{
			"operation":            enum("get", "create_fk", "drop_fk", "create", "drop"),
			"constraintName":       str(),
			"tableName":            str(),
			"constraintType":       enum("PRIMARY KEY", "FOREIGN KEY", "UNIQUE", "CHECK"),
			"columnNames":          strArray(),
			"referencedTable":      str(),
			"referencedColumns":    strArray(),
			"referencedSchema":     str(),
			"onUpdate":             enum("NO ACTION", "RESTRICT", "CASCADE", "SET NULL", "SET DEFAULT"),
			"onDelete":             enum("NO ACTION", "RESTRICT", "CASCADE", "SET NULL", "SET DEFAULT"),
			"constraintTypeCreate": enum("unique", "check", "primary_key"),
			"checkExpression":      str(),
			"deferrable":           boolean(),
			"initiallyDeferred":    boolean(),
			"ifExists":             boolean(),
			"cascade":              boolean(),
			"connectionString":     str(),
		}, "operation"),
	},
	{
		Name: "execute_query",
		Description: "Execute SELECT queries and data retrieval operations. " +
			"Use this for any request to list, show, or retrieve data from the database, " +
			"including listing all databases (e.g., 'show databases'), tables, or records. " +
			"For example, to list all databases, use: SELECT datname FROM pg_database;",
		Parameters: obj(map[string]any{
			"operation":        enum("select", "count", "exists"),
			"query":            str(),
			"parameters":       array(map[string]any{}),
			"limit":            integer(),
			"timeout":          integer(),
			"connectionString": str(),
		}, "operation", "query"),
	},
	{
		Name: "execute_mutation",
		Description: "Execute data modification operations (INSERT/UPDATE/DELETE/UPSERT). " +
			"For insert, you MUST provide table and data (object with column values). " +
			"For update/delete, provide table and where clause. For upsert, provide conflictColumns. " +
			`Example data: {"id": 1, "name": "John"}.`,
		Parameters: obj(map[string]any{
			"operation":        enum("insert", "update", "delete", "upsert"),
			"table":            str(),
			"data":             map[string]any{"type": "object"},
			"where":            str(),
			"conflictColumns":  strArray(),
			"returning":        str(),
			"schema":           str(),
			"connectionString": str(),
		}, "operation", "table"),
	},
	{
		Name:        "execute_sql",
		Description: "Execute arbitrary SQL statements.",
		Parameters: obj(map[string]any{
			"sql":              str(),
			"parameters":       array(map[string]any{}),
			"expectRows":       boolean(),
			"timeout":          integer(),
			"transactional":    boolean(),
			"connectionString": str(),
		}, "sql"),
	},
	{
		Name:        "manage_comments",
		Description: "Manage PostgreSQL object comments.",
		Parameters: obj(map[string]any{
			"operation":            enum("get", "set", "remove", "bulk_get"),
			"objectType":           enum("table", "column", "index", "constraint", "function", "trigger", "view", "sequence", "schema", "database"),
			"objectName":           str(),
			"schema":               str(),
			"columnName":           str(),
			"comment":              str(),
			"includeSystemObjects": boolean(),
			"filterObjectType":     enum("table", "column", "index", "constraint", "function", "trigger", "view", "sequence", "schema", "database"),
			"connectionString":     str(),
		}, "operation", "objectType", "objectName"),
	},
}

// Schemas は LLM に提示する全関数スキーマを返す
func Schemas() []FunctionSchema {
	return functionSchemas
}
