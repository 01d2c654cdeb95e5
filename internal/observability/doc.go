// Package observability records what Focus Flow does and reports on it. Events
// are appended to a JSON Lines file; metrics and alerts are derived from that
// log and the current day on demand, and alerts can be pushed to Slack.
package observability
