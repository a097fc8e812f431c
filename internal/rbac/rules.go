package rbac

// RolePermissions is the default role policy.
var RolePermissions = map[string][]string{
	// self-practice: score own answers only
	"student": {
		"answer:evaluate",
	},
	// LMS backends calling on behalf of a course
	"service": {
		"answer:*",
	},
	"teacher": {
		"answer:*",
		"evaluation:view",
		"policy:view",
	},
	"admin": {
		"*", // everything
	},
}
