// Package models contains GORM persistence models that map to database tables.
// Domain types stay free of ORM tags; each model has a ToDomain method and a
// <Name>ModelFromDomain constructor.
//
// Tables:
//   - pricing_rules: pricing rules with their conditions as jsonb
//   - settings: key/value configuration
//   - customers, quotes, bookings: the sales pipeline
//   - notifications: queued customer messages
//   - documents: object storage metadata for uploaded files
package models
