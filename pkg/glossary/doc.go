/*
Package glossary implements the definition catalog and the definition
annotator.

The catalog ingests heterogeneous glossary records (a record may bundle
several term values, shared fields and override items) and normalizes them
once, at load time, into flat DefinitionEntry values. The annotator scans
arbitrary text for catalog terms, longest first, resolves overlaps
deterministically and wraps accepted matches with stable reference markers.
Annotating already-annotated text is a no-op for claimed spans, which keeps
the recursive closure over glossary descriptions terminating.
*/
package glossary
