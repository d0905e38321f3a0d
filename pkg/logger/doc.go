// Package logger provides structured logging for lensdl on top of zerolog.
//
// Components receive a Logger and attach context with WithField or
// WithFields. The command line initializes a global instance:
//
//	if err := logger.Initialize(&cfg.Logging); err != nil {
//	    return err
//	}
//	log := logger.GetLogger().WithField("component", "scraper")
//	log.InfoWithFields("Album found", map[string]interface{}{
//	    "gallery_id": "1IhJr",
//	    "images":     12,
//	})
//
// Tests use NewNopLogger, or NewTestLogger when they assert on output.
package logger
