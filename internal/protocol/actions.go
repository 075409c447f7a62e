package protocol

// Action names form a closed set, bound to handlers once at startup.
const (
	ActionReadFile       = "read_file"
	ActionWriteFile      = "write_file"
	ActionListDirectory  = "list_directory"
	ActionSearchText     = "search_text"
	ActionReplaceText    = "replace_text"
	ActionExecuteCommand = "execute_command"
	ActionAnalyzeCode    = "analyze_code"
	ActionGenerateCode   = "generate_code"
	ActionGenerateTests  = "generate_tests"
	ActionRefactorCode   = "refactor_code"
	ActionPlanTask       = "plan_task"
	ActionCreateMock     = "create_mock"
)
