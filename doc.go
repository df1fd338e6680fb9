/*
Package sheets-sync copies and reshapes rows between Google Sheets worksheets.

sheets-sync can be used from the command line but is really intended to be run from a cron job to keep a set of
analytics worksheets (lessons, QA evaluations, tutor ratings) up to date with the worksheets they are derived from.
Each job reads one or more source worksheets, selects and converts the configured columns, drops the rows whose key
is already in the destination worksheet and appends (or replaces) the remaining rows.

sheets-sync supports the following commands:

  - authorise, to authorise access to Google Sheets with OAuth2 client credentials
  - sync, to run the jobs in the configuration file
  - get, to download a Google Sheets worksheet range as a TSV file
  - put, to store a TSV file to a Google Sheets worksheet
  - info, to display the spreadsheet name, last modification and worksheets
  - dashboard, to serve the QA dashboard
*/
package sheets
