package rbac

// Simple default policy. Expand as needed.
var RolePermissions = map[string][]string{
	"student": {
		"exam:view",
		"rubric:view",
	},
	"teacher": {
		"exam:create",
		"exam:view",
		"question:create",
		"criteria:manage",
		"rubric:view",
		"rubric:edit",
		"answer:edit",
	},
	"admin": {
		"*", // everything
	},
}
