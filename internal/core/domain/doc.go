// Package domain contains the core business entities for askdoc.
// These types are free of infrastructure concerns and are shared
// between services and adapters.
package domain
