/*
Package domain holds the shared value types of the dichokey engine.

The central type is Model: an immutable decision-tree definition mapping
characteristic ids to ordered choice lists. Everything else in the engine is
derived from it after load and never mutated afterwards, which is what makes
parallel page generation safe.
*/
package domain
