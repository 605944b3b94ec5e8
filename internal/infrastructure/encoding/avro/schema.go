package avro

// AuditEventSchema is the Avro schema for audit-trail events published to
// kafka. Timestamps travel as ISO-8601 strings to stay readable in topic
// dumps.
const AuditEventSchema = `{
	"type": "record",
	"name": "AuditEvent",
	"namespace": "com.carshop.audit",
	"fields": [
		{"name": "id", "type": "string"},
		{"name": "username", "type": "string"},
		{"name": "action", "type": "string"},
		{"name": "info", "type": ["null", "string"], "default": null},
		{"name": "at", "type": "string"}
	]
}`
