/*
Package ports defines the driven ports (interfaces) of the dichokey engine.

These interfaces decouple the derived-data core from external concerns:
model and glossary storage, vector graph rendering and label translation.
The page orchestrator consumes the core strictly through read-only queries,
so any implementation satisfying these contracts can feed it.
*/
package ports
