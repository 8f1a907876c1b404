// Package services holds the application's business logic. Services depend
// on repository interfaces so they can be exercised without a database.
//
// Services defined in this package:
//   - AuthService: Google sign-in, token refresh and logout
//   - UserService: profile reads and updates
//   - ForecastService: GPA projection and the grade scale
//   - ResultService: semester results, cumulative summary and export
//   - AcademicContextService: profile, summary and recent results in one call
//   - AdvisorService: language model answers grounded on the academic context
//   - NewsletterService: subscriptions and subscriber statistics
package services
