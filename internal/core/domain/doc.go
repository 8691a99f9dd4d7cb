// Package domain defines the core entities of the ReplyAgent system:
// emails, audience categories, anonymisation mappings, index records,
// retrieval matches, and style profiles.
//
// Domain types are pure data with no infrastructure dependencies.
package domain
