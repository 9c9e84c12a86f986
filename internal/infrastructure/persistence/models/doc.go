// Package models contains GORM persistence models that map to database tables.
// They are kept apart from domain entities so the domain layer stays free of
// ORM tags; each model has ToDomain/FromDomain mappers.
//
//   - base.go: BaseModel and the AutoMigrate list
//   - identity.go: users and their site roles
//   - catalog.go: products, course links and vendor allow-lists
//   - outbox.go: transactional outbox entries
package models
