// Package cms is a read-only client for a Strapi-style headless CMS.
//
// It builds filtered and paginated queries against the /api prefix, performs
// a single GET per call, unwraps the {data, meta} envelope and hands back
// plain domain values. Nothing is cached between calls; a Client carries only
// its configuration and transport and is safe for concurrent use.
//
// Non-2xx responses surface as *RequestError and undecodable bodies as
// *ParseError. A missing project or image is not an error.
package cms
