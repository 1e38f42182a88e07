// Package models holds the GORM persistence models. Domain entities
// stay free of ORM tags; each model here knows how to hydrate its
// domain counterpart and how to serialize it back.
//
// Layout:
//   - base.go: shared column sets (BaseModel, AggregateModel, AuditedAggregateModel)
//   - identity.go: users and their role rows
//   - membership.go: membership requests, board votes and members
//   - content.go: content ownership rows consulted before user deletion
package models
